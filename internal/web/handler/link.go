package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"

	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/embed"
	"github.com/mcoot/linkplay/internal/services/media"
	"github.com/mcoot/linkplay/internal/services/rotation"
)

// qrSize is the edge length of generated QR images in pixels
const qrSize = 256

// LinkHandler serves rotating short links
type LinkHandler struct {
	preview  *Previewer
	media    *media.Service
	registry *rotation.Registry
	logger   *slog.Logger
}

// NewLinkHandler creates a new LinkHandler
func NewLinkHandler(preview *Previewer, mediaService *media.Service, registry *rotation.Registry, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		preview:  preview,
		media:    mediaService,
		registry: registry,
		logger:   logger,
	}
}

// Resolve handles GET /{token}. Crawlers and ?embed=1 get the preview page,
// everything else (and any Range request) gets the bytes.
func (h *LinkHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	bucket, fileName, ok := h.lookup(r)
	if !ok {
		notFound(w)
		return
	}

	if embed.ShouldServePreview(r.Header, r.URL.Query()) {
		h.preview.RenderPreview(w, r, bucket, fileName)
		return
	}
	h.preview.ServeBytes(w, r, bucket, fileName)
}

// Embed handles GET /{token}/embed
func (h *LinkHandler) Embed(w http.ResponseWriter, r *http.Request) {
	bucket, fileName, ok := h.lookup(r)
	if !ok {
		notFound(w)
		return
	}
	h.preview.RenderPreview(w, r, bucket, fileName)
}

// QR handles GET /{token}/qr
func (h *LinkHandler) QR(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if _, ok := h.registry.Resolve(r.Context(), token); !ok {
		notFound(w)
		return
	}

	png, err := qrcode.Encode(h.media.BaseURL(r)+"/"+token, qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Error("failed to encode qr code", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (h *LinkHandler) lookup(r *http.Request) (model.Bucket, string, bool) {
	payload, ok := h.registry.Resolve(r.Context(), mux.Vars(r)["token"])
	if !ok {
		return model.Bucket{}, "", false
	}
	bucket, err := h.media.BucketFor(payload.Kind, payload.OwnerSlug)
	if err != nil {
		return model.Bucket{}, "", false
	}
	return bucket, payload.FileName, true
}
