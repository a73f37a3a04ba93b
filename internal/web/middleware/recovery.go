package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/linkplay/internal/middleware"
)

// Recovery creates panic recovery middleware for public link routes.
// Link consumers are crawlers and media players, so the body is plain text.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Cache-Control", "no-store")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
