package usecase

import (
	"context"

	"ingetin-backend/internal/notification/domain"
	taskdomain "ingetin-backend/internal/task/domain"
)

// NotificationUsecase computes the reminder feed of a user
type NotificationUsecase interface {
	// GetNotifications evaluates the viewer's reminder candidates at the
	// current instant. Nothing is stored, so repeated calls agree.
	GetNotifications(ctx context.Context, viewer taskdomain.Viewer) ([]domain.Notification, error)
}
