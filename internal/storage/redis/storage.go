package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Guests expire, registered users persist
	var ttl time.Duration
	if user.IsGuest {
		ttl = s.cfg.GuestUserTTL
	}
	return s.client.Set(ctx, userKey(user.ID), data, ttl).Err()
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getJSON(ctx, userKey(id), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	return s.client.Del(ctx, userKey(id)).Err()
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	data, err := json.Marshal(ru)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, registeredUserKey(ru.UserID), data, 0)
	pipe.Set(ctx, usernameIndexKey(ru.Username), string(ru.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error) {
	var ru model.RegisteredUser
	if err := s.getJSON(ctx, registeredUserKey(userID), &ru, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &ru, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	userID, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetRegisteredUser(ctx, model.UserID(userID))
}

// Notification operations

func (s *Storage) AddNotification(ctx context.Context, n *model.Notification, limit int) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	key := notificationsKey(n.UserID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if limit > 0 {
		pipe.LTrim(ctx, key, 0, int64(limit-1))
	}
	if s.cfg.NotificationTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.NotificationTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListNotifications(ctx context.Context, userID model.UserID) ([]*model.Notification, error) {
	values, err := s.client.LRange(ctx, notificationsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	list := make([]*model.Notification, 0, len(values))
	for _, v := range values {
		var n model.Notification
		if err := json.Unmarshal([]byte(v), &n); err != nil {
			continue // Skip invalid data
		}
		list = append(list, &n)
	}
	return list, nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, userID model.UserID, id string) (*model.Notification, error) {
	key := notificationsKey(userID)
	var found *model.Notification

	// Optimistic transaction on the list key; fails with redis.TxFailedErr on a concurrent write
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		values, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}
		for i, v := range values {
			var n model.Notification
			if err := json.Unmarshal([]byte(v), &n); err != nil || n.ID != id {
				continue
			}
			n.Read = true
			data, err := json.Marshal(&n)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.LSet(ctx, key, int64(i), data)
				return nil
			})
			if err != nil {
				return err
			}
			found = &n
			return nil
		}
		return model.ErrNotificationNotFound
	}, key)
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Storage) MarkAllNotificationsRead(ctx context.Context, userID model.UserID) error {
	key := notificationsKey(userID)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		values, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, v := range values {
				var n model.Notification
				if err := json.Unmarshal([]byte(v), &n); err != nil || n.Read {
					continue
				}
				n.Read = true
				data, err := json.Marshal(&n)
				if err != nil {
					return err
				}
				pipe.LSet(ctx, key, int64(i), data)
			}
			return nil
		})
		return err
	}, key)
}

// Embed preference operations

func (s *Storage) GetEmbedPrefs(ctx context.Context) (*model.EmbedPrefs, error) {
	var prefs model.EmbedPrefs
	if err := s.getJSON(ctx, embedPrefsKey(), &prefs, model.ErrEmbedPrefsNotFound); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (s *Storage) SaveEmbedPrefs(ctx context.Context, prefs *model.EmbedPrefs) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, embedPrefsKey(), data, 0).Err()
}

// Game record operations

func (s *Storage) SaveGameRecord(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, gameRecordKey(game.ID), data, s.cfg.GameRecordTTL).Err()
}

func (s *Storage) GetGameRecord(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.getJSON(ctx, gameRecordKey(id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

// getJSON loads key into dst, mapping a missing key to notFound
func (s *Storage) getJSON(ctx context.Context, key string, dst any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dst)
}
