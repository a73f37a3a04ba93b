package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/linkplay/internal/api/middleware"
	"github.com/mcoot/linkplay/internal/api/response"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/notify"
	"github.com/mcoot/linkplay/internal/sse"
)

// NotificationHandler handles the notification inbox and its event stream
type NotificationHandler struct {
	notify *notify.Service
	hubs   *sse.HubManager
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifyService *notify.Service, hubs *sse.HubManager) *NotificationHandler {
	return &NotificationHandler{notify: notifyService, hubs: hubs}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	items, err := h.notify.List(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if items == nil {
		items = []*model.Notification{}
	}

	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}

	response.JSON(w, http.StatusOK, response.NotificationList{
		Notifications: items,
		Unread:        unread,
	})
}

// MarkRead handles POST /api/v1/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	n, err := h.notify.MarkRead(r.Context(), user.ID, mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NotificationResponse{Notification: n})
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	if err := h.notify.MarkAllRead(r.Context(), user.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK{OK: true})
}

// Events handles GET /api/v1/notifications/events
func (h *NotificationHandler) Events(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	sse.ServeSSE(w, r, h.hubs, user.ID)
}
