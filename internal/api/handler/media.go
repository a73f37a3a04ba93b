package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/linkplay/internal/api/middleware"
	"github.com/mcoot/linkplay/internal/api/response"
	"github.com/mcoot/linkplay/internal/services/media"
	"github.com/mcoot/linkplay/internal/services/rotation"
)

// MediaHandler handles bucket listing and short-link issuing
type MediaHandler struct {
	media    *media.Service
	registry *rotation.Registry
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService *media.Service, registry *rotation.Registry) *MediaHandler {
	return &MediaHandler{media: mediaService, registry: registry}
}

// Buckets handles GET /api/v1/media/buckets
func (h *MediaHandler) Buckets(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	buckets := h.media.Buckets(*user)
	resp := response.BucketList{Buckets: make([]response.Bucket, 0, len(buckets))}
	for _, b := range buckets {
		resp.Buckets = append(resp.Buckets, response.BucketFromModel(b))
	}

	response.JSON(w, http.StatusOK, resp)
}

// Assets handles GET /api/v1/media/buckets/{bucket}/assets
func (h *MediaHandler) Assets(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	bucket, err := h.media.Resolve(mux.Vars(r)["bucket"], *user)
	if err != nil {
		WriteError(w, err)
		return
	}

	assets, err := h.media.List(r.Context(), bucket)
	if err != nil {
		WriteError(w, err)
		return
	}

	base := h.media.BaseURL(r)
	resp := response.AssetList{
		Bucket: response.BucketFromModel(bucket),
		Assets: make([]response.Asset, 0, len(assets)),
	}
	for _, a := range assets {
		resp.Assets = append(resp.Assets, response.AssetFromMedia(a, base))
	}

	response.JSON(w, http.StatusOK, resp)
}

// Asset handles GET /api/v1/media/buckets/{bucket}/assets/{file}/info
func (h *MediaHandler) Asset(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)

	bucket, err := h.media.Resolve(vars["bucket"], *user)
	if err != nil {
		WriteError(w, err)
		return
	}

	asset, err := h.media.Info(r.Context(), bucket, vars["file"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AssetFromMedia(asset, h.media.BaseURL(r)))
}

// Link handles POST /api/v1/media/buckets/{bucket}/assets/{file}/link
func (h *MediaHandler) Link(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)

	bucket, err := h.media.Resolve(vars["bucket"], *user)
	if err != nil {
		WriteError(w, err)
		return
	}

	asset, err := h.media.Info(r.Context(), bucket, vars["file"])
	if err != nil {
		WriteError(w, err)
		return
	}

	link, err := h.registry.IssueLink(r.Context(), bucket, asset.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	short := h.media.BaseURL(r) + "/" + link.Token
	response.JSON(w, http.StatusCreated, response.ShortLink{
		Token:     link.Token,
		ShortURL:  short,
		EmbedURL:  short + "/embed",
		QRURL:     short + "/qr",
		BucketID:  bucket.ID,
		File:      asset.Name,
		ExpiresAt: link.ExpiresAt,
	})
}
