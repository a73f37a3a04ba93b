package handler

import (
	"net/http"

	"github.com/mcoot/linkplay/internal/api/request"
	"github.com/mcoot/linkplay/internal/api/response"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/embed"
)

// EmbedPrefsHandler handles the operator's preview defaults
type EmbedPrefsHandler struct {
	prefs *embed.PrefsService
}

// NewEmbedPrefsHandler creates a new embed preferences handler
func NewEmbedPrefsHandler(prefs *embed.PrefsService) *EmbedPrefsHandler {
	return &EmbedPrefsHandler{prefs: prefs}
}

// Get handles GET /api/v1/embed-prefs
func (h *EmbedPrefsHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.EmbedPrefsFromModel(prefs))
}

// Update handles PUT /api/v1/embed-prefs
func (h *EmbedPrefsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.EmbedPrefsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	prefs, err := h.prefs.Set(r.Context(), model.EmbedPrefs{
		Title: req.Title,
		Desc:  req.Desc,
		Color: req.Color,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EmbedPrefsFromModel(prefs))
}
