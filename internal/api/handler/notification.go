package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/api/response"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/notify"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notifyService *notify.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifyService *notify.Service) *NotificationHandler {
	return &NotificationHandler{
		notifyService: notifyService,
	}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	offset, limit := pageParams(r, 20)

	notifications, total, unread, err := h.notifyService.List(r.Context(), user.ID, offset, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NotificationList{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
	})
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	updated, err := h.notifyService.MarkRead(r.Context(), user.ID, model.NotificationID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated)
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	marked, err := h.notifyService.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MarkReadResponse{Marked: marked})
}

// Delete handles DELETE /api/notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.notifyService.Delete(r.Context(), user.ID, model.NotificationID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
