// Package notify keeps a short per-user inbox and pushes new entries live.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/linkplay/internal/dependencies/clock"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/storage"
)

// DefaultLimit is how many notifications each user keeps
const DefaultLimit = 50

// EventNotification is the stream event name for new notifications
const EventNotification = "notification"

// Publisher pushes an event to a user's live streams
type Publisher interface {
	Publish(userID model.UserID, event string, payload any)
}

// Service stores notifications and fans them out to live streams
type Service struct {
	storage   storage.Storage
	publisher Publisher
	clock     clock.Clock
	logger    *slog.Logger
	limit     int
}

// New creates a notification Service. publisher may be nil.
func New(storage storage.Storage, publisher Publisher, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:   storage,
		publisher: publisher,
		clock:     clock,
		logger:    logger.With(slog.String("component", "notify")),
		limit:     DefaultLimit,
	}
}

// Add stores a notification for the user and pushes it to their streams
func (s *Service) Add(ctx context.Context, userID model.UserID, kind model.NotificationType, message string, meta map[string]string) (*model.Notification, error) {
	if kind == "" {
		kind = model.NotificationInfo
	}
	if meta == nil {
		meta = map[string]string{}
	}

	n := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Message:   message,
		Meta:      meta,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.AddNotification(ctx, n, s.limit); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, EventNotification, n)
	}
	return n, nil
}

// Notify is Add without a result; failures are logged
func (s *Service) Notify(ctx context.Context, userID model.UserID, kind model.NotificationType, message string, meta map[string]string) {
	if _, err := s.Add(ctx, userID, kind, message, meta); err != nil {
		s.logger.Error("failed to store notification",
			slog.String("user_id", string(userID)),
			slog.String("error", err.Error()),
		)
	}
}

// List returns the user's notifications, newest first
func (s *Service) List(ctx context.Context, userID model.UserID) ([]*model.Notification, error) {
	return s.storage.ListNotifications(ctx, userID)
}

// MarkRead flags one notification as read
func (s *Service) MarkRead(ctx context.Context, userID model.UserID, id string) (*model.Notification, error) {
	return s.storage.MarkNotificationRead(ctx, userID, id)
}

// MarkAllRead flags every notification of the user as read
func (s *Service) MarkAllRead(ctx context.Context, userID model.UserID) error {
	return s.storage.MarkAllNotificationsRead(ctx, userID)
}

// UnreadCount returns how many of the user's notifications are unread
func (s *Service) UnreadCount(ctx context.Context, userID model.UserID) (int, error) {
	list, err := s.storage.ListNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count, nil
}
