package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/linkplay/internal/dependencies/clock"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users           map[model.UserID]*model.User
	registeredUsers map[model.UserID]*model.RegisteredUser
	usernameIndex   map[string]model.UserID
	notifications   map[model.UserID][]*model.Notification
	embedPrefs      *model.EmbedPrefs
	gameRecords     map[model.GameID]gameRecord

	clock         clock.Clock
	gameRecordTTL time.Duration
}

type gameRecord struct {
	game      *model.Game
	expiresAt time.Time
}

// DefaultGameRecordTTL matches the redis default
const DefaultGameRecordTTL = time.Hour

// Option configures a Storage
type Option func(*Storage)

// WithClock sets the clock game record expiry is measured against
func WithClock(clk clock.Clock) Option {
	return func(s *Storage) { s.clock = clk }
}

// WithGameRecordTTL sets how long finished games stay readable
func WithGameRecordTTL(ttl time.Duration) Option {
	return func(s *Storage) {
		if ttl > 0 {
			s.gameRecordTTL = ttl
		}
	}
}

// New creates a new in-memory storage instance
func New(opts ...Option) *Storage {
	s := &Storage{
		users:           make(map[model.UserID]*model.User),
		registeredUsers: make(map[model.UserID]*model.RegisteredUser),
		usernameIndex:   make(map[string]model.UserID),
		notifications:   make(map[model.UserID][]*model.Notification),
		gameRecords:     make(map[model.GameID]gameRecord),
		clock:           clock.New(),
		gameRecordTTL:   DefaultGameRecordTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *ru
	s.registeredUsers[ru.UserID] = &r
	s.usernameIndex[ru.Username] = ru.UserID
	return nil
}

func (s *Storage) GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ru, ok := s.registeredUsers[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	r := *ru
	return &r, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	s.mu.RLock()
	userID, ok := s.usernameIndex[username]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.GetRegisteredUser(ctx, userID)
}

// Notification operations

func (s *Storage) AddNotification(ctx context.Context, n *model.Notification, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneNotification(n)
	list := append([]*model.Notification{c}, s.notifications[n.UserID]...)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	s.notifications[n.UserID] = list
	return nil
}

func (s *Storage) ListNotifications(ctx context.Context, userID model.UserID) ([]*model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.notifications[userID]
	result := make([]*model.Notification, len(list))
	for i, n := range list {
		result[i] = cloneNotification(n)
	}
	return result, nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, userID model.UserID, id string) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications[userID] {
		if n.ID == id {
			n.Read = true
			return cloneNotification(n), nil
		}
	}
	return nil, model.ErrNotificationNotFound
}

func (s *Storage) MarkAllNotificationsRead(ctx context.Context, userID model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications[userID] {
		n.Read = true
	}
	return nil
}

// Embed preference operations

func (s *Storage) GetEmbedPrefs(ctx context.Context) (*model.EmbedPrefs, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.embedPrefs == nil {
		return nil, model.ErrEmbedPrefsNotFound
	}
	p := *s.embedPrefs
	return &p, nil
}

func (s *Storage) SaveEmbedPrefs(ctx context.Context, prefs *model.EmbedPrefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *prefs
	s.embedPrefs = &p
	return nil
}

// Game record operations

// SaveGameRecord stores a finished game for the record TTL. Expired
// records are dropped on each save.
func (s *Storage) SaveGameRecord(ctx context.Context, game *model.Game) error {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.gameRecords {
		if !now.Before(rec.expiresAt) {
			delete(s.gameRecords, id)
		}
	}
	s.gameRecords[game.ID] = gameRecord{game: game.Clone(), expiresAt: now.Add(s.gameRecordTTL)}
	return nil
}

func (s *Storage) GetGameRecord(ctx context.Context, id model.GameID) (*model.Game, error) {
	now := s.clock.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.gameRecords[id]
	if !ok || !now.Before(rec.expiresAt) {
		return nil, model.ErrGameNotFound
	}
	return rec.game.Clone(), nil
}

func cloneNotification(n *model.Notification) *model.Notification {
	c := *n
	if n.Meta != nil {
		c.Meta = make(map[string]string, len(n.Meta))
		for k, v := range n.Meta {
			c.Meta[k] = v
		}
	}
	return &c
}
