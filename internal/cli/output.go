package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout, errW: os.Stderr}
}

// NewOutputTo creates an Output writing to w; errors go to w as well
func NewOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w, errW: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	switch o.format {
	case FormatJSON:
		o.printJSON(data)
	case FormatYAML:
		o.printYAML(data)
	default:
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	switch o.format {
	case FormatJSON:
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errW, string(data))
	case FormatYAML:
		data, _ := yaml.Marshal(map[string]any{"error": map[string]string{"message": err.Error()}})
		fmt.Fprint(o.errW, string(data))
	default:
		fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	switch o.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	case FormatYAML:
		data, _ := yaml.Marshal(map[string]string{"message": msg})
		fmt.Fprint(o.w, string(data))
	default:
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printYAML(data any) {
	enc := yaml.NewEncoder(o.w)
	enc.SetIndent(2)
	_ = enc.Encode(data)
	_ = enc.Close()
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case GameState:
		o.printGameState(v)
	case NotificationList:
		o.printNotifications(v)
	case BucketList:
		o.printBuckets(v)
	case AssetList:
		o.printAssets(v)
	case Asset:
		o.printAsset(v)
	case ShortLink:
		o.printShortLink(v)
	case EmbedPrefs:
		o.printEmbedPrefs(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Username    string `json:"username,omitempty" yaml:"username,omitempty"`
	IsGuest     bool   `json:"is_guest" yaml:"is_guest"`
	IsOwner     bool   `json:"is_owner,omitempty" yaml:"is_owner,omitempty"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user" yaml:"user"`
	SessionToken string `json:"session_token" yaml:"session_token"`
}

// Opponent response type
type Opponent struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// GameView response type
type GameView struct {
	ID           string   `json:"id" yaml:"id"`
	Board        []string `json:"board" yaml:"board"`
	Status       string   `json:"status" yaml:"status"`
	YourSymbol   string   `json:"your_symbol" yaml:"your_symbol"`
	Turn         *string  `json:"turn" yaml:"turn"`
	Opponent     Opponent `json:"opponent" yaml:"opponent"`
	WinnerSymbol *string  `json:"winner_symbol" yaml:"winner_symbol"`
	Draw         bool     `json:"draw" yaml:"draw"`
	Forfeit      bool     `json:"forfeit" yaml:"forfeit"`
	Message      string   `json:"message" yaml:"message"`
}

// GameState response type
type GameState struct {
	Status string    `json:"status,omitempty" yaml:"status,omitempty"`
	Queue  bool      `json:"queue" yaml:"queue"`
	Game   *GameView `json:"game" yaml:"game"`
}

// Notification response type
type Notification struct {
	ID        string            `json:"id" yaml:"id"`
	Type      string            `json:"type" yaml:"type"`
	Message   string            `json:"message" yaml:"message"`
	Meta      map[string]string `json:"meta" yaml:"meta,omitempty"`
	Read      bool              `json:"read" yaml:"read"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
}

// NotificationList response type
type NotificationList struct {
	Notifications []Notification `json:"notifications" yaml:"notifications"`
	Unread        int            `json:"unread" yaml:"unread"`
}

// Bucket response type
type Bucket struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	OwnerSlug string `json:"owner_slug,omitempty" yaml:"owner_slug,omitempty"`
	URLPrefix string `json:"url_prefix" yaml:"url_prefix"`
}

// BucketList response type
type BucketList struct {
	Buckets []Bucket `json:"buckets" yaml:"buckets"`
}

// Asset response type
type Asset struct {
	Name          string    `json:"name" yaml:"name"`
	Size          int64     `json:"size" yaml:"size"`
	SizeFormatted string    `json:"size_formatted" yaml:"size_formatted"`
	MimeType      string    `json:"mime_type" yaml:"mime_type"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
	URL           string    `json:"url" yaml:"url"`
	EmbedURL      string    `json:"embed_url" yaml:"embed_url"`
	BucketID      string    `json:"bucket_id" yaml:"bucket_id"`
}

// AssetList response type
type AssetList struct {
	Bucket Bucket  `json:"bucket" yaml:"bucket"`
	Assets []Asset `json:"assets" yaml:"assets"`
}

// ShortLink response type
type ShortLink struct {
	Token     string    `json:"token" yaml:"token"`
	ShortURL  string    `json:"short_url" yaml:"short_url"`
	EmbedURL  string    `json:"embed_url" yaml:"embed_url"`
	QRURL     string    `json:"qr_url" yaml:"qr_url"`
	BucketID  string    `json:"bucket_id" yaml:"bucket_id"`
	File      string    `json:"file" yaml:"file"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// EmbedPrefs response type
type EmbedPrefs struct {
	Title string `json:"title" yaml:"title"`
	Desc  string `json:"desc" yaml:"desc"`
	Color string `json:"color" yaml:"color"`
}

// HealthResult response type
type HealthResult struct {
	Status       string `json:"status" yaml:"status"`
	QueuedUsers  int    `json:"queued_users" yaml:"queued_users"`
	ActiveGames  int    `json:"active_games" yaml:"active_games"`
	LiveLinks    int    `json:"live_links" yaml:"live_links"`
	CurrentEpoch int64  `json:"current_epoch" yaml:"current_epoch"`
}

func (o *Output) printUser(u User) {
	guestStr := "no"
	if u.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.DisplayName, u.ID)
	if u.Username != "" {
		fmt.Fprintf(o.w, "Username: %s\n", u.Username)
	}
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
	if u.IsOwner {
		fmt.Fprintln(o.w, "Owner: yes")
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printGameState(s GameState) {
	if s.Status != "" {
		fmt.Fprintf(o.w, "Status: %s\n", s.Status)
	}
	if s.Game == nil {
		if s.Queue {
			fmt.Fprintln(o.w, "Waiting for an opponent...")
		} else {
			fmt.Fprintln(o.w, "No active game.")
		}
		return
	}

	g := s.Game
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "You are %s, playing %s\n", g.YourSymbol, g.Opponent.DisplayName)
	o.printBoard(g.Board)
	fmt.Fprintln(o.w, g.Message)
}

// printBoard draws the 3x3 grid; empty cells show their index
func (o *Output) printBoard(board []string) {
	if len(board) != 9 {
		return
	}
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			cells[col] = board[i]
			if cells[col] == "" {
				cells[col] = fmt.Sprintf("%d", i)
			}
		}
		fmt.Fprintf(o.w, " %s \n", strings.Join(cells, " | "))
		if row < 2 {
			fmt.Fprintln(o.w, "---+---+---")
		}
	}
}

func (o *Output) printNotifications(l NotificationList) {
	fmt.Fprintf(o.w, "Notifications (%d unread):\n", l.Unread)
	for _, n := range l.Notifications {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Fprintf(o.w, " %s [%s] %s (%s)\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.Message, n.ID)
	}
}

func (o *Output) printBuckets(l BucketList) {
	for _, b := range l.Buckets {
		fmt.Fprintf(o.w, "%s\t%s\t%s\n", b.ID, b.Type, b.Name)
	}
}

func (o *Output) printAssets(l AssetList) {
	fmt.Fprintf(o.w, "Bucket: %s (%d files)\n", l.Bucket.Name, len(l.Assets))
	for _, a := range l.Assets {
		fmt.Fprintf(o.w, "  %-40s %10s  %s\n", a.Name, a.SizeFormatted, a.MimeType)
	}
}

func (o *Output) printAsset(a Asset) {
	fmt.Fprintf(o.w, "Name: %s\n", a.Name)
	fmt.Fprintf(o.w, "Size: %s\n", a.SizeFormatted)
	fmt.Fprintf(o.w, "Type: %s\n", a.MimeType)
	fmt.Fprintf(o.w, "URL: %s\n", a.URL)
	fmt.Fprintf(o.w, "Embed: %s\n", a.EmbedURL)
}

func (o *Output) printShortLink(l ShortLink) {
	fmt.Fprintf(o.w, "%s\n", l.ShortURL)
	fmt.Fprintf(o.w, "Embed: %s\n", l.EmbedURL)
	fmt.Fprintf(o.w, "QR: %s\n", l.QRURL)
	fmt.Fprintf(o.w, "Expires: %s\n", l.ExpiresAt.Local().Format(time.RFC1123))
}

func (o *Output) printEmbedPrefs(p EmbedPrefs) {
	fmt.Fprintf(o.w, "Title: %s\n", p.Title)
	fmt.Fprintf(o.w, "Description: %s\n", p.Desc)
	fmt.Fprintf(o.w, "Color: %s\n", p.Color)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Queued: %d, active games: %d, live links: %d\n", h.QueuedUsers, h.ActiveGames, h.LiveLinks)
}
