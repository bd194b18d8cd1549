package usecase

import (
	"context"
	"errors"

	"ingetin-backend/internal/task/domain"
)

var (
	// ErrTaskNotFound covers both missing tasks and tasks the viewer may not act on.
	ErrTaskNotFound          = errors.New("task not found")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
	ErrInvalidTask           = errors.New("invalid task")
)

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	// ListTasks returns the viewer's own tasks and the tasks shared with them
	ListTasks(ctx context.Context, viewer domain.Viewer) (owned, shared []*domain.Task, err error)

	// FilterTasks lists owned tasks by a named filter and an optional fuzzy title query
	FilterTasks(ctx context.Context, viewer domain.Viewer, filter, query string) ([]*domain.Task, error)

	// GetTask retrieves a task the viewer owns or collaborates on
	GetTask(ctx context.Context, viewer domain.Viewer, taskID string) (*domain.Task, error)

	// CreateTask creates a task owned by the viewer
	CreateTask(ctx context.Context, viewer domain.Viewer, input TaskInput) (*domain.Task, error)

	// UpdateTask rewrites an owned task
	UpdateTask(ctx context.Context, viewer domain.Viewer, taskID string, input TaskInput) (*domain.Task, error)

	// DeleteTask deletes an owned task
	DeleteTask(ctx context.Context, viewer domain.Viewer, taskID string) error

	// UpdateStatus changes the status of an accessible task
	UpdateStatus(ctx context.Context, viewer domain.Viewer, taskID string, status domain.TaskStatus) (*domain.Task, error)

	// SetChecklistItemCompleted toggles a checklist item of an accessible task
	SetChecklistItemCompleted(ctx context.Context, viewer domain.Viewer, taskID, itemID string, completed bool) (*domain.ChecklistItem, error)
}

// TaskInput carries the writable fields of a task. On update a nil
// Description or Reminder keeps the stored value, and a nil Checklist or
// SharedWith keeps the stored collection; a non-nil one replaces it.
type TaskInput struct {
	Title       string
	Description *string
	Deadline    domain.Date
	Priority    domain.Priority
	Status      domain.TaskStatus
	Reminder    *domain.ReminderPolicy
	Checklist   []ChecklistInput
	SharedWith  []string
}

type ChecklistInput struct {
	Text      string
	Completed bool
}
