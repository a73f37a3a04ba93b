package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/media"
)

// MediaHandler serves raw files and the legacy per-file embed pages
type MediaHandler struct {
	preview *Previewer
	media   *media.Service
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(preview *Previewer, mediaService *media.Service) *MediaHandler {
	return &MediaHandler{preview: preview, media: mediaService}
}

// SharedFile handles GET /media/shared/{file}
func (h *MediaHandler) SharedFile(w http.ResponseWriter, r *http.Request) {
	h.preview.ServeBytes(w, r, h.media.Shared(), mux.Vars(r)["file"])
}

// UserFile handles GET /media/users/{slug}/{file}
func (h *MediaHandler) UserFile(w http.ResponseWriter, r *http.Request) {
	bucket, ok := h.userBucket(r)
	if !ok {
		notFound(w)
		return
	}
	h.preview.ServeBytes(w, r, bucket, mux.Vars(r)["file"])
}

// SharedEmbed handles GET /media/embed/shared/{file}
func (h *MediaHandler) SharedEmbed(w http.ResponseWriter, r *http.Request) {
	h.preview.RenderPreview(w, r, h.media.Shared(), mux.Vars(r)["file"])
}

// UserEmbed handles GET /media/embed/users/{slug}/{file}
func (h *MediaHandler) UserEmbed(w http.ResponseWriter, r *http.Request) {
	bucket, ok := h.userBucket(r)
	if !ok {
		notFound(w)
		return
	}
	h.preview.RenderPreview(w, r, bucket, mux.Vars(r)["file"])
}

// userBucket only accepts slugs already in canonical form
func (h *MediaHandler) userBucket(r *http.Request) (model.Bucket, bool) {
	slug := mux.Vars(r)["slug"]
	if media.Slugify(slug) != slug {
		return model.Bucket{}, false
	}
	return h.media.UserBucket(slug), true
}
