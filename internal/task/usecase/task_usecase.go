package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"ingetin-backend/internal/task/domain"
	"ingetin-backend/internal/task/repository"
	"ingetin-backend/pkg/emailaddr"
	"ingetin-backend/pkg/fuzzy"
)

// titleMatchThreshold is the edit distance tolerated by the title search.
const titleMatchThreshold = 2

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
	location *time.Location
	now      func() time.Time
}

// NewTaskUsecase creates a new instance of taskUsecase. Calendar-day
// filters are evaluated in loc.
func NewTaskUsecase(taskRepo repository.TaskRepository, loc *time.Location) TaskUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &taskUsecase{
		taskRepo: taskRepo,
		location: loc,
		now:      time.Now,
	}
}

func (u *taskUsecase) ListTasks(ctx context.Context, viewer domain.Viewer) ([]*domain.Task, []*domain.Task, error) {
	owned, err := u.taskRepo.FindOwned(ctx, viewer.ID, repository.TaskFilter{})
	if err != nil {
		return nil, nil, err
	}
	shared, err := u.taskRepo.FindSharedWith(ctx, emailaddr.Normalize(viewer.Email))
	if err != nil {
		return nil, nil, err
	}
	return owned, shared, nil
}

func (u *taskUsecase) FilterTasks(ctx context.Context, viewer domain.Viewer, filter, query string) ([]*domain.Task, error) {
	var f repository.TaskFilter
	switch filter {
	case "today":
		today := domain.DateOf(u.now().In(u.location))
		f.Deadline = &today
	case "high":
		p := domain.PriorityHigh
		f.Priority = &p
	case "in-progress":
		s := domain.TaskStatusInProgress
		f.Status = &s
	case "done":
		s := domain.TaskStatusDone
		f.Status = &s
	}

	tasks, err := u.taskRepo.FindOwned(ctx, viewer.ID, f)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return tasks, nil
	}
	matched := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if fuzzy.Match(query, task.Title, titleMatchThreshold) {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

func (u *taskUsecase) GetTask(ctx context.Context, viewer domain.Viewer, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(viewer, task) {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (u *taskUsecase) CreateTask(ctx context.Context, viewer domain.Viewer, input TaskInput) (*domain.Task, error) {
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	if input.Status == "" {
		input.Status = domain.TaskStatusTodo
	}
	reminder := domain.ReminderNone
	if input.Reminder != nil {
		reminder = *input.Reminder
	}

	task := &domain.Task{
		UserID:      viewer.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Deadline:    input.Deadline,
		Priority:    input.Priority,
		Status:      input.Status,
		Reminder:    reminder,
	}
	if err := validate(task); err != nil {
		return nil, err
	}
	task.ChecklistItems = buildChecklist(input.Checklist)
	task.SharedTasks = buildShares(input.SharedWith)

	if err := u.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	log.Printf("[TaskUsecase] User %s created task %s (%d items, %d shares)", viewer.ID, task.ID, len(task.ChecklistItems), len(task.SharedTasks))

	return u.taskRepo.FindByID(ctx, task.ID)
}

func (u *taskUsecase) UpdateTask(ctx context.Context, viewer domain.Viewer, taskID string, input TaskInput) (*domain.Task, error) {
	task, err := u.ownedTask(ctx, viewer, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Deadline = input.Deadline
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Reminder != nil {
		task.Reminder = *input.Reminder
	}
	if err := validate(task); err != nil {
		return nil, err
	}

	var replace repository.ReplaceSet
	if input.Checklist != nil {
		replace.Checklist = true
		task.ChecklistItems = buildChecklist(input.Checklist)
	}
	if input.SharedWith != nil {
		replace.Shares = true
		task.SharedTasks = buildShares(input.SharedWith)
	}
	task.Owner = nil

	if err := u.taskRepo.Update(ctx, task, replace); err != nil {
		return nil, err
	}
	return u.taskRepo.FindByID(ctx, task.ID)
}

func (u *taskUsecase) DeleteTask(ctx context.Context, viewer domain.Viewer, taskID string) error {
	task, err := u.ownedTask(ctx, viewer, taskID)
	if err != nil {
		return err
	}
	if err := u.taskRepo.Delete(ctx, task.ID); err != nil {
		return err
	}
	log.Printf("[TaskUsecase] User %s deleted task %s", viewer.ID, task.ID)
	return nil
}

func (u *taskUsecase) UpdateStatus(ctx context.Context, viewer domain.Viewer, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: status must be todo, in-progress or done", ErrInvalidTask)
	}
	task, err := u.GetTask(ctx, viewer, taskID)
	if err != nil {
		return nil, err
	}
	if err := u.taskRepo.UpdateStatus(ctx, task.ID, status); err != nil {
		return nil, err
	}
	task.Status = status
	task.UpdatedAt = u.now()
	return task, nil
}

func (u *taskUsecase) SetChecklistItemCompleted(ctx context.Context, viewer domain.Viewer, taskID, itemID string, completed bool) (*domain.ChecklistItem, error) {
	if _, err := u.GetTask(ctx, viewer, taskID); err != nil {
		return nil, err
	}
	item, err := u.taskRepo.FindChecklistItem(ctx, taskID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrChecklistItemNotFound
	}
	item.Completed = completed
	if err := u.taskRepo.UpdateChecklistItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (u *taskUsecase) ownedTask(ctx context.Context, viewer domain.Viewer, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwner(viewer, task) {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func validate(task *domain.Task) error {
	switch {
	case task.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	case utf8.RuneCountInString(task.Title) > 255:
		return fmt.Errorf("%w: title must not exceed 255 characters", ErrInvalidTask)
	case task.Deadline.IsZero():
		return fmt.Errorf("%w: deadline is required", ErrInvalidTask)
	case !domain.ValidPriority(task.Priority):
		return fmt.Errorf("%w: priority must be low, medium, or high", ErrInvalidTask)
	case !domain.ValidStatus(task.Status):
		return fmt.Errorf("%w: invalid status", ErrInvalidTask)
	case !domain.ValidReminder(task.Reminder):
		return fmt.Errorf("%w: invalid reminder", ErrInvalidTask)
	}
	return nil
}

// buildChecklist assigns display order from the position in the request.
func buildChecklist(items []ChecklistInput) []domain.ChecklistItem {
	out := make([]domain.ChecklistItem, 0, len(items))
	for i, item := range items {
		out = append(out, domain.ChecklistItem{
			Text:      item.Text,
			Completed: item.Completed,
			Order:     i,
		})
	}
	return out
}

func buildShares(emails []string) []domain.SharedTask {
	seen := make(map[string]bool, len(emails))
	out := make([]domain.SharedTask, 0, len(emails))
	for _, email := range emails {
		email = emailaddr.Normalize(email)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, domain.SharedTask{CollaboratorEmail: email})
	}
	return out
}
