package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/linkplay/internal/dependencies/clock"
	"github.com/mcoot/linkplay/internal/dependencies/random"
	"github.com/mcoot/linkplay/internal/services/auth"
	"github.com/mcoot/linkplay/internal/services/embed"
	"github.com/mcoot/linkplay/internal/services/game"
	"github.com/mcoot/linkplay/internal/services/media"
	"github.com/mcoot/linkplay/internal/services/notify"
	"github.com/mcoot/linkplay/internal/services/rotation"
	"github.com/mcoot/linkplay/internal/services/slug"
	"github.com/mcoot/linkplay/internal/sse"
	"github.com/mcoot/linkplay/internal/storage"
	"github.com/mcoot/linkplay/internal/storage/memory"
	redisstorage "github.com/mcoot/linkplay/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService   *auth.Service
	MediaService  *media.Service
	PrefsService  *embed.PrefsService
	Registry      *rotation.Registry
	NotifyService *notify.Service
	Directory     *game.Directory
	HubManager    *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// MediaConfig locates the media root (optional)
	MediaConfig media.Config
	// RotationConfig controls short-link epochs (optional)
	RotationConfig rotation.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(memory.WithClock(clk))
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clk, random.New(), withDefaults(cfg), logger)

	if err := app.MediaService.Init(); err != nil {
		return nil, fmt.Errorf("init media root: %w", err)
	}
	return app, nil
}

func withDefaults(cfg Config) Config {
	if cfg.AuthConfig.SessionDuration == 0 {
		owner := cfg.AuthConfig.OwnerUsername
		cfg.AuthConfig = auth.DefaultConfig()
		cfg.AuthConfig.OwnerUsername = owner
	}
	if cfg.RotationConfig.Interval == 0 {
		cfg.RotationConfig.Interval = rotation.DefaultConfig().Interval
	}
	if cfg.RotationConfig.TokenLength == 0 {
		cfg.RotationConfig.TokenLength = rotation.DefaultConfig().TokenLength
	}
	if cfg.RotationConfig.MaxAttempts == 0 {
		cfg.RotationConfig.MaxAttempts = rotation.DefaultConfig().MaxAttempts
	}
	return cfg
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	hubManager := sse.NewHubManager(logger)
	publisher := sse.NewPublisher(hubManager, logger)

	notifyService := notify.New(store, publisher, clk, logger)
	mediaService := media.New(cfg.MediaConfig, logger)
	registry := rotation.NewRegistry(clk, slug.New(rnd), cfg.RotationConfig, logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		AuthService:   auth.New(store, clk, rnd, cfg.AuthConfig, logger),
		MediaService:  mediaService,
		PrefsService:  embed.NewPrefsService(store, logger),
		Registry:      registry,
		NotifyService: notifyService,
		Directory:     game.NewDirectory(store, notifyService, clk, logger),
		HubManager:    hubManager,
	}
}
