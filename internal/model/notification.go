package model

import "time"

// NotificationType categorises a notification
type NotificationType string

const (
	NotificationInfo NotificationType = "info"
	NotificationGame NotificationType = "game"
)

// Notification is a message delivered to a single user
type Notification struct {
	ID        string            `json:"id"`
	UserID    UserID            `json:"user_id"`
	Type      NotificationType  `json:"type"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}
