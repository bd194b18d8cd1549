package delivery

import (
	"log"
	"net/http"

	"ingetin-backend/internal/notification/domain"
	"ingetin-backend/internal/notification/usecase"
	taskdomain "ingetin-backend/internal/task/domain"
	"ingetin-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the reminder feed
type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notificationUsecase: notificationUsecase}
}

// GetNotifications returns the reminders due for the current user right now
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	viewer := taskdomain.Viewer{
		ID:    c.GetString("userID"),
		Email: c.GetString("userEmail"),
	}

	notifications, err := h.notificationUsecase.GetNotifications(c.Request.Context(), viewer)
	if err != nil {
		log.Printf("[Notification] Failed to build feed for %s: %v", viewer.ID, err)
		response.Error(c, http.StatusInternalServerError, "Failed to get notifications")
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"count":         len(notifications),
	})
}
