package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/embed"
	"github.com/mcoot/linkplay/internal/services/media"
)

// Previewer renders embed preview pages and serves file bytes for the public routes
type Previewer struct {
	media  *media.Service
	prefs  *embed.PrefsService
	logger *slog.Logger
}

// NewPreviewer creates a Previewer
func NewPreviewer(mediaService *media.Service, prefs *embed.PrefsService, logger *slog.Logger) *Previewer {
	return &Previewer{media: mediaService, prefs: prefs, logger: logger}
}

// RenderPreview writes the HTML preview page for a file. Overrides come from
// the title, desc and color query parameters.
func (p *Previewer) RenderPreview(w http.ResponseWriter, r *http.Request, bucket model.Bucket, fileName string) {
	if !p.media.IsReadable(bucket, fileName) {
		notFound(w)
		return
	}

	defaults, err := p.prefs.Get(r.Context())
	if err != nil {
		// Previews still render with built-in fallbacks
		p.logger.Warn("failed to load embed prefs", slog.String("error", err.Error()))
		defaults = model.EmbedPrefs{}
	}

	q := r.URL.Query()
	overrides := embed.Overrides{
		Title: q.Get("title"),
		Desc:  q.Get("desc"),
		Color: q.Get("color"),
	}
	fileURL := p.media.BaseURL(r) + media.RawPath(bucket, fileName)
	page := embed.NewPage(fileURL, fileName, overrides, defaults)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Header().Set("Vary", "User-Agent, Accept")
	if err := embed.Document(page).Render(r.Context(), w); err != nil {
		p.logger.Error("failed to render preview",
			slog.String("file", fileName),
			slog.String("error", err.Error()),
		)
	}
}

// ServeBytes writes the file itself
func (p *Previewer) ServeBytes(w http.ResponseWriter, r *http.Request, bucket model.Bucket, fileName string) {
	err := p.media.ServeFile(w, r, bucket, fileName)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrFileNotFound):
		notFound(w)
	default:
		p.logger.Error("failed to serve media",
			slog.String("bucket", bucket.ID),
			slog.String("file", fileName),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	http.Error(w, "Not Found", http.StatusNotFound)
}
