package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"

	"github.com/mcoot/linkplay/internal/api/handler"
	"github.com/mcoot/linkplay/internal/api/middleware"
	"github.com/mcoot/linkplay/internal/api/response"
	httpmw "github.com/mcoot/linkplay/internal/middleware"
	"github.com/mcoot/linkplay/internal/services/auth"
	"github.com/mcoot/linkplay/internal/services/embed"
	"github.com/mcoot/linkplay/internal/services/game"
	"github.com/mcoot/linkplay/internal/services/media"
	"github.com/mcoot/linkplay/internal/services/notify"
	"github.com/mcoot/linkplay/internal/services/rotation"
	"github.com/mcoot/linkplay/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	Directory     *game.Directory
	NotifyService *notify.Service
	MediaService  *media.Service
	Registry      *rotation.Registry
	PrefsService  *embed.PrefsService
	HubManager    *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	gameHandler := handler.NewTicTacToeHandler(cfg.Directory)
	notificationHandler := handler.NewNotificationHandler(cfg.NotifyService, cfg.HubManager)
	mediaHandler := handler.NewMediaHandler(cfg.MediaService, cfg.Registry)
	prefsHandler := handler.NewEmbedPrefsHandler(cfg.PrefsService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	ownerMiddleware := middleware.RequireOwner(cfg.AuthService)
	loggingMiddleware := httpmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	compress := func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) }

	// The event stream is registered ahead of the compressed subrouter
	events := r.PathPrefix("/api/v1/notifications/events").Subrouter()
	events.Use(recoveryMiddleware)
	events.Use(loggingMiddleware)
	events.Use(authMiddleware)
	events.HandleFunc("", notificationHandler.Events).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(compress)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Tic-tac-toe routes
	ttt := api.PathPrefix("/tictactoe").Subrouter()
	ttt.Use(authMiddleware)
	ttt.HandleFunc("/status", gameHandler.Status).Methods(http.MethodGet)
	ttt.HandleFunc("/queue", gameHandler.Queue).Methods(http.MethodPost)
	ttt.HandleFunc("/move", gameHandler.Move).Methods(http.MethodPost)
	ttt.HandleFunc("/leave", gameHandler.Leave).Methods(http.MethodPost)

	// Finished games stay readable by their players
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("/{id}", gameHandler.GetGame).Methods(http.MethodGet)

	// Notification routes
	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.Use(authMiddleware)
	notifications.HandleFunc("", notificationHandler.List).Methods(http.MethodGet)
	notifications.HandleFunc("/read-all", notificationHandler.MarkAllRead).Methods(http.MethodPost)
	notifications.HandleFunc("/{id}/read", notificationHandler.MarkRead).Methods(http.MethodPost)

	// Media routes
	mediaRoutes := api.PathPrefix("/media").Subrouter()
	mediaRoutes.Use(authMiddleware)
	mediaRoutes.HandleFunc("/buckets", mediaHandler.Buckets).Methods(http.MethodGet)
	mediaRoutes.HandleFunc("/buckets/{bucket}/assets", mediaHandler.Assets).Methods(http.MethodGet)
	mediaRoutes.HandleFunc("/buckets/{bucket}/assets/{file}/info", mediaHandler.Asset).Methods(http.MethodGet)
	mediaRoutes.HandleFunc("/buckets/{bucket}/assets/{file}/link", mediaHandler.Link).Methods(http.MethodPost)

	// Preview defaults; anyone signed in may read, only the owner may change
	prefs := api.PathPrefix("/embed-prefs").Subrouter()
	prefs.Use(authMiddleware)
	prefs.HandleFunc("", prefsHandler.Get).Methods(http.MethodGet)
	prefs.Handle("", ownerMiddleware(http.HandlerFunc(prefsHandler.Update))).Methods(http.MethodPut)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg)).Methods(http.MethodGet)

	return r
}

func healthHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queued, active := cfg.Directory.Stats()
		response.JSON(w, http.StatusOK, response.Health{
			Status:       "ok",
			QueuedUsers:  queued,
			ActiveGames:  active,
			LiveLinks:    cfg.Registry.Len(),
			CurrentEpoch: cfg.Registry.CurrentEpoch(),
		})
	}
}
