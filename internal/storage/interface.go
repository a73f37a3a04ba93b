package storage

import (
	"context"

	"github.com/mcoot/linkplay/internal/model"
)

// Storage defines the interface for data persistence.
// Rotation tokens, the match queue and live games are deliberately absent:
// they are process-local state owned by their services.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	DeleteUser(ctx context.Context, id model.UserID) error

	// Registered user operations
	SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error
	GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error)
	GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error)

	// Notification operations, newest first
	AddNotification(ctx context.Context, n *model.Notification, limit int) error
	ListNotifications(ctx context.Context, userID model.UserID) ([]*model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID model.UserID, id string) (*model.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID model.UserID) error

	// Embed preference operations
	GetEmbedPrefs(ctx context.Context) (*model.EmbedPrefs, error)
	SaveEmbedPrefs(ctx context.Context, prefs *model.EmbedPrefs) error

	// Finished game records
	SaveGameRecord(ctx context.Context, game *model.Game) error
	GetGameRecord(ctx context.Context, id model.GameID) (*model.Game, error)
}
