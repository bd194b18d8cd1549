package usecase

import (
	"context"
	"time"

	"ingetin-backend/internal/notification/domain"
	taskdomain "ingetin-backend/internal/task/domain"
	taskrepo "ingetin-backend/internal/task/repository"
)

type notificationUsecase struct {
	taskRepo taskrepo.TaskRepository
	location *time.Location
	now      func() time.Time
}

// NewNotificationUsecase creates a feed evaluated in loc
func NewNotificationUsecase(taskRepo taskrepo.TaskRepository, loc *time.Location) NotificationUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &notificationUsecase{
		taskRepo: taskRepo,
		location: loc,
		now:      time.Now,
	}
}

func (u *notificationUsecase) GetNotifications(ctx context.Context, viewer taskdomain.Viewer) ([]domain.Notification, error) {
	now := u.now().In(u.location)

	tasks, err := u.taskRepo.FindReminderCandidates(ctx, viewer, taskdomain.DateOf(now))
	if err != nil {
		return nil, err
	}
	return domain.EvaluateAll(tasks, now), nil
}
