package repository

import (
	"context"

	"ingetin-backend/internal/task/domain"
)

// TaskFilter narrows a task listing. Nil fields are ignored.
type TaskFilter struct {
	Deadline *domain.Date
	Priority *domain.Priority
	Status   *domain.TaskStatus
}

// ReplaceSet selects which child collections an update rewrites. A selected
// collection is deleted and re-inserted from the task's slice, never merged.
type ReplaceSet struct {
	Checklist bool
	Shares    bool
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task together with its checklist items and share grants
	Create(ctx context.Context, task *domain.Task) error

	// FindByID loads a task with checklist, shares and owner; nil if absent
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindOwned lists tasks owned by userID, ordered by deadline
	FindOwned(ctx context.Context, userID string, filter TaskFilter) ([]*domain.Task, error)

	// FindSharedWith lists tasks granted to the collaborator email, ordered by deadline
	FindSharedWith(ctx context.Context, email string) ([]*domain.Task, error)

	// Update saves task fields and replaces the collections named in replace
	Update(ctx context.Context, task *domain.Task, replace ReplaceSet) error

	// UpdateStatus changes only the status column
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error

	// Delete removes a task and its checklist items and share grants
	Delete(ctx context.Context, id string) error

	// FindChecklistItem finds an item belonging to taskID; nil if absent
	FindChecklistItem(ctx context.Context, taskID, itemID string) (*domain.ChecklistItem, error)

	// UpdateChecklistItem saves a checklist item
	UpdateChecklistItem(ctx context.Context, item *domain.ChecklistItem) error

	// FindReminderCandidates returns tasks visible to viewer that have a reminder
	// and a deadline on or after today
	FindReminderCandidates(ctx context.Context, viewer domain.Viewer, today domain.Date) ([]*domain.Task, error)

	// FindAllReminderCandidates is FindReminderCandidates across every user
	FindAllReminderCandidates(ctx context.Context, today domain.Date) ([]*domain.Task, error)
}
