package handler

import (
	"log"
	"net/http"

	"picstream/internal/httputil"
	"picstream/internal/repository"
	"picstream/internal/transport/http/middleware"
)

const notificationPageSize = 50

type NotificationHandler struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationHandler(notificationRepo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// List handles GET /api/notifications for the authenticated user.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route.")
		return
	}

	notifications, err := h.notificationRepo.ListForUser(r.Context(), user.ID.Hex(), notificationPageSize)
	if err != nil {
		log.Printf("[ERROR] Notifications handler: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Error getting notifications")
		return
	}

	httputil.WriteData(w, http.StatusOK, "Successfully retrieved notifications", notifications)
}
