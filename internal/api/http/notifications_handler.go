package http

import (
	"net/http"
	"strconv"

	"driveshare-backend/internal/service"
)

// NotificationsHandler serves the caller's in-app notification feed.
type NotificationsHandler struct {
	notifications service.NotificationService
}

func NewNotificationsHandler(notifications service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())

	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	notes, total, err := h.notifications.List(r.Context(), party.UserID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes, "total": total})
}

func (h *NotificationsHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())
	noteID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), noteID, party.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, name string) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}
