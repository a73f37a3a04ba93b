package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/mcoot/linkplay/internal/api"
	"github.com/mcoot/linkplay/internal/factory"
	"github.com/mcoot/linkplay/internal/services/auth"
	"github.com/mcoot/linkplay/internal/services/media"
	"github.com/mcoot/linkplay/internal/services/rotation"
	redisstorage "github.com/mcoot/linkplay/internal/storage/redis"
	"github.com/mcoot/linkplay/internal/web"
)

const (
	appName            = "linkplay"
	janitorInterval    = 5 * time.Minute
	hubCleanupInterval = time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newCmd(&Config{})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config) error {
	displayAppname(appName)

	// Set up logging with JSON output
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	authCfg := auth.DefaultConfig()
	authCfg.SessionDuration = cfg.sessionDuration
	authCfg.OwnerUsername = cfg.owner

	rotationCfg := rotation.DefaultConfig()
	rotationCfg.Interval = cfg.rotationInterval

	appCfg := factory.Config{
		AuthConfig:     authCfg,
		MediaConfig:    media.Config{Root: cfg.mediaRoot, PublicURL: cfg.publicURL},
		RotationConfig: rotationCfg,
		Logger:         logger,
		StorageType:    cfg.storage,
	}
	if cfg.storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		appCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(appCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	// Background sweeps stop with ctx
	go app.AuthService.RunSessionJanitor(ctx, janitorInterval)
	go runHubCleanup(ctx, app, logger)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		Directory:     app.Directory,
		NotifyService: app.NotifyService,
		MediaService:  app.MediaService,
		Registry:      app.Registry,
		PrefsService:  app.PrefsService,
		HubManager:    app.HubManager,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:       logger,
		MediaService: app.MediaService,
		Registry:     app.Registry,
		PrefsService: app.PrefsService,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.bind
	serverConfig.Port = cfg.port
	server := api.NewServer(mux, serverConfig, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.storage),
		slog.String("media_root", cfg.mediaRoot),
		slog.Duration("rotation_interval", cfg.rotationInterval),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	app.HubManager.CloseAll()
	if err := server.Shutdown(context.Background()); err != nil {
		return err
	}
	if closer, ok := app.Storage.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
	return nil
}

func runHubCleanup(ctx context.Context, app *factory.App, logger *slog.Logger) {
	ticker := time.NewTicker(hubCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := app.HubManager.CleanupEmptyHubs(); n > 0 {
				logger.Debug("removed idle event hubs", slog.Int("count", n))
			}
		}
	}
}

func displayAppname(name string) {
	banner := figure.NewFigure(name, "cybermedium", true)
	banner.Print()
	fmt.Println()
}
