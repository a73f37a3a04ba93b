package response

import (
	"fmt"
	"time"

	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/auth"
	"github.com/mcoot/linkplay/internal/services/media"
)

// User represents a user in API responses
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username,omitempty"`
	IsGuest     bool   `json:"is_guest"`
	IsOwner     bool   `json:"is_owner,omitempty"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:          string(u.ID),
		DisplayName: u.DisplayName,
		Username:    u.Username,
		IsGuest:     u.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// Opponent is the other seat as shown to a player
type Opponent struct {
	DisplayName string `json:"display_name"`
}

// GameView is a game as seen by one of its players
type GameView struct {
	ID           string     `json:"id"`
	Board        []string   `json:"board"`
	Status       string     `json:"status"`
	YourSymbol   string     `json:"your_symbol"`
	Turn         *string    `json:"turn"`
	Opponent     Opponent   `json:"opponent"`
	WinnerSymbol *string    `json:"winner_symbol"`
	Draw         bool       `json:"draw"`
	Forfeit      bool       `json:"forfeit"`
	Message      string     `json:"message"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// GameViewFor renders the game from the viewer's seat
func GameViewFor(g *model.Game, viewer model.UserID) *GameView {
	if g == nil {
		return nil
	}
	you := g.SymbolFor(viewer)
	opponent := g.Opponent(you)

	board := make([]string, model.BoardSize)
	for i, c := range g.Board {
		board[i] = string(c)
	}

	v := &GameView{
		ID:         string(g.ID),
		Board:      board,
		Status:     string(g.Status),
		YourSymbol: string(you),
		Opponent:   Opponent{DisplayName: opponent.DisplayName},
		Draw:       g.Draw,
		Forfeit:    g.Forfeit,
		Message:    statusMessage(g, you, opponent.DisplayName),
		CreatedAt:  g.CreatedAt,
	}
	if g.IsActive() {
		turn := string(g.Next)
		v.Turn = &turn
	} else {
		finished := g.FinishedAt
		v.FinishedAt = &finished
	}
	if g.WinnerSymbol != model.SymbolNone {
		winner := string(g.WinnerSymbol)
		v.WinnerSymbol = &winner
	}
	return v
}

func statusMessage(g *model.Game, you model.Symbol, opponent string) string {
	switch {
	case g.IsActive() && g.Next == you:
		return "Your move!"
	case g.IsActive():
		return fmt.Sprintf("%s's move", opponent)
	case g.Draw:
		return "Game ended in a draw."
	case g.WinnerSymbol == you && g.Forfeit:
		return fmt.Sprintf("%s forfeited. You win!", opponent)
	case g.WinnerSymbol == you:
		return "You win!"
	case g.Forfeit:
		return "You forfeited the match."
	default:
		return fmt.Sprintf("%s wins.", opponent)
	}
}

// GameState is the response for every tic-tac-toe endpoint
type GameState struct {
	Status string    `json:"status,omitempty"`
	Queue  bool      `json:"queue"`
	Game   *GameView `json:"game"`
}

// NotificationList is the response for listing notifications
type NotificationList struct {
	Notifications []*model.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

// NotificationResponse wraps a single notification
type NotificationResponse struct {
	Notification *model.Notification `json:"notification"`
}

// OK is a bare success acknowledgement
type OK struct {
	OK bool `json:"ok"`
}

// Bucket represents a media bucket
type Bucket struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	OwnerSlug string `json:"owner_slug,omitempty"`
	URLPrefix string `json:"url_prefix"`
}

// BucketFromModel converts a model.Bucket; the on-disk path is never exposed
func BucketFromModel(b model.Bucket) Bucket {
	return Bucket{
		ID:        b.ID,
		Name:      b.Name,
		Type:      string(b.Kind),
		OwnerSlug: b.OwnerSlug,
		URLPrefix: b.URLPrefix,
	}
}

// BucketList is the response for listing buckets
type BucketList struct {
	Buckets []Bucket `json:"buckets"`
}

// Asset represents a file in a bucket
type Asset struct {
	Name          string    `json:"name"`
	Size          int64     `json:"size"`
	SizeFormatted string    `json:"size_formatted"`
	MimeType      string    `json:"mime_type"`
	Extension     string    `json:"extension"`
	UpdatedAt     time.Time `json:"updated_at"`
	URL           string    `json:"url"`
	EmbedURL      string    `json:"embed_url"`
	BucketID      string    `json:"bucket_id"`
	BucketType    string    `json:"bucket_type"`
}

// AssetFromMedia converts a media.Asset, making its paths absolute against base
func AssetFromMedia(a media.Asset, base string) Asset {
	return Asset{
		Name:          a.Name,
		Size:          a.Size,
		SizeFormatted: media.FormatBytes(a.Size),
		MimeType:      a.MimeType,
		Extension:     a.Extension,
		UpdatedAt:     a.ModTime,
		URL:           base + a.URL,
		EmbedURL:      base + a.EmbedURL,
		BucketID:      a.BucketID,
		BucketType:    string(a.BucketKind),
	}
}

// AssetList is the response for listing a bucket
type AssetList struct {
	Bucket Bucket  `json:"bucket"`
	Assets []Asset `json:"assets"`
}

// ShortLink is a freshly issued rotating link
type ShortLink struct {
	Token     string    `json:"token"`
	ShortURL  string    `json:"short_url"`
	EmbedURL  string    `json:"embed_url"`
	QRURL     string    `json:"qr_url"`
	BucketID  string    `json:"bucket_id"`
	File      string    `json:"file"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EmbedPrefs is the operator's preview defaults
type EmbedPrefs struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Color string `json:"color"`
}

// EmbedPrefsFromModel converts model.EmbedPrefs
func EmbedPrefsFromModel(p model.EmbedPrefs) EmbedPrefs {
	return EmbedPrefs{Title: p.Title, Desc: p.Desc, Color: p.Color}
}

// Health is the response for the health check
type Health struct {
	Status       string `json:"status"`
	QueuedUsers  int    `json:"queued_users"`
	ActiveGames  int    `json:"active_games"`
	LiveLinks    int    `json:"live_links"`
	CurrentEpoch int64  `json:"current_epoch"`
}
