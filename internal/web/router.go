package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	httpmw "github.com/mcoot/linkplay/internal/middleware"
	"github.com/mcoot/linkplay/internal/services/embed"
	"github.com/mcoot/linkplay/internal/services/media"
	"github.com/mcoot/linkplay/internal/services/rotation"
	"github.com/mcoot/linkplay/internal/web/handler"
	"github.com/mcoot/linkplay/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger       *slog.Logger
	MediaService *media.Service
	Registry     *rotation.Registry
	PrefsService *embed.PrefsService
}

// NewRouter creates the public router for short links and raw media. No route needs auth.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Apply global middleware to all routes
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(httpmw.Logging(cfg.Logger))

	// Create handlers
	preview := handler.NewPreviewer(cfg.MediaService, cfg.PrefsService, cfg.Logger)
	linkHandler := handler.NewLinkHandler(preview, cfg.MediaService, cfg.Registry, cfg.Logger)
	mediaHandler := handler.NewMediaHandler(preview, cfg.MediaService)

	// Raw files
	r.HandleFunc("/media/shared/{file}", mediaHandler.SharedFile).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/media/users/{slug}/{file}", mediaHandler.UserFile).Methods(http.MethodGet, http.MethodHead)

	// Legacy embed pages
	r.HandleFunc("/media/embed/shared/{file}", mediaHandler.SharedEmbed).Methods(http.MethodGet)
	r.HandleFunc("/media/embed/users/{slug}/{file}", mediaHandler.UserEmbed).Methods(http.MethodGet)

	// Short links
	const token = "/{token:[A-Za-z0-9]{3,5}}"
	r.HandleFunc(token, linkHandler.Resolve).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(token+"/embed", linkHandler.Embed).Methods(http.MethodGet)
	r.HandleFunc(token+"/qr", linkHandler.QR).Methods(http.MethodGet)

	return r
}
