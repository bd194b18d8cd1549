package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ingetin-backend/internal/task/domain"
	"ingetin-backend/pkg/emailaddr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

// Models lists the tables owned by this repository, for migrations.
func Models() []interface{} {
	return []interface{}{&domain.Task{}, &domain.ChecklistItem{}, &domain.SharedTask{}}
}

func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		if err := insertChecklist(tx, task); err != nil {
			return err
		}
		return insertShares(tx, task)
	})
}

func (r *gormTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := withDetails(r.db.WithContext(ctx)).Preload("Owner").
		Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

func (r *gormTaskRepository) FindOwned(ctx context.Context, userID string, filter TaskFilter) ([]*domain.Task, error) {
	query := withDetails(r.db.WithContext(ctx)).Where("user_id = ?", userID)

	if filter.Deadline != nil {
		query = query.Where("deadline = ?", *filter.Deadline)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var tasks []*domain.Task
	if err := query.Order("deadline ASC, created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list owned tasks: %w", err)
	}
	return tasks, nil
}

func (r *gormTaskRepository) FindSharedWith(ctx context.Context, email string) ([]*domain.Task, error) {
	granted := r.db.Model(&domain.SharedTask{}).Select("task_id").Where("collaborator_email = ?", email)

	// Collaborators see the owner but not the other grants.
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Owner").
		Where("tasks.id IN (?)", granted).
		Order("deadline ASC, created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list shared tasks: %w", err)
	}
	for _, task := range tasks {
		task.SharedTasks = []domain.SharedTask{}
	}
	return tasks, nil
}

func (r *gormTaskRepository) Update(ctx context.Context, task *domain.Task, replace ReplaceSet) error {
	task.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if replace.Checklist {
			if err := tx.Where("task_id = ?", task.ID).Delete(&domain.ChecklistItem{}).Error; err != nil {
				return fmt.Errorf("clear checklist: %w", err)
			}
			if err := insertChecklist(tx, task); err != nil {
				return err
			}
		}
		if replace.Shares {
			if err := tx.Where("task_id = ?", task.ID).Delete(&domain.SharedTask{}).Error; err != nil {
				return fmt.Errorf("clear shares: %w", err)
			}
			if err := insertShares(tx, task); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormTaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	err := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

func (r *gormTaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&domain.ChecklistItem{}).Error; err != nil {
			return fmt.Errorf("delete checklist: %w", err)
		}
		if err := tx.Where("task_id = ?", id).Delete(&domain.SharedTask{}).Error; err != nil {
			return fmt.Errorf("delete shares: %w", err)
		}
		if err := tx.Delete(&domain.Task{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
}

func (r *gormTaskRepository) FindChecklistItem(ctx context.Context, taskID, itemID string) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	err := r.db.WithContext(ctx).Where("id = ? AND task_id = ?", itemID, taskID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find checklist item: %w", err)
	}
	return &item, nil
}

func (r *gormTaskRepository) UpdateChecklistItem(ctx context.Context, item *domain.ChecklistItem) error {
	item.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("update checklist item: %w", err)
	}
	return nil
}

func (r *gormTaskRepository) FindReminderCandidates(ctx context.Context, viewer domain.Viewer, today domain.Date) ([]*domain.Task, error) {
	return r.findReminderCandidates(ctx, today, accessibleBy(r.db, viewer))
}

func (r *gormTaskRepository) FindAllReminderCandidates(ctx context.Context, today domain.Date) ([]*domain.Task, error) {
	return r.findReminderCandidates(ctx, today)
}

func (r *gormTaskRepository) findReminderCandidates(ctx context.Context, today domain.Date, scopes ...func(*gorm.DB) *gorm.DB) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Preload("SharedTasks").
		Scopes(scopes...).
		Where("tasks.reminder <> ? AND tasks.deadline >= ?", domain.ReminderNone, today).
		Order("deadline ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	return tasks, nil
}

// accessibleBy is the query form of domain.CanAccess.
func accessibleBy(db *gorm.DB, viewer domain.Viewer) func(*gorm.DB) *gorm.DB {
	granted := db.Model(&domain.SharedTask{}).Select("task_id").
		Where("collaborator_email = ?", emailaddr.Normalize(viewer.Email))
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("(tasks.user_id = ? OR tasks.id IN (?))", viewer.ID, granted)
	}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("SharedTasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("shared_at ASC")
		})
}

func insertChecklist(tx *gorm.DB, task *domain.Task) error {
	if len(task.ChecklistItems) == 0 {
		return nil
	}
	now := time.Now()
	for i := range task.ChecklistItems {
		item := &task.ChecklistItems[i]
		item.ID = uuid.New().String()
		item.TaskID = task.ID
		item.CreatedAt = now
		item.UpdatedAt = now
	}
	if err := tx.Create(&task.ChecklistItems).Error; err != nil {
		return fmt.Errorf("insert checklist: %w", err)
	}
	return nil
}

func insertShares(tx *gorm.DB, task *domain.Task) error {
	if len(task.SharedTasks) == 0 {
		return nil
	}
	now := time.Now()
	for i := range task.SharedTasks {
		share := &task.SharedTasks[i]
		share.ID = uuid.New().String()
		share.TaskID = task.ID
		share.OwnerID = task.UserID
		share.SharedAt = now
	}
	if err := tx.Create(&task.SharedTasks).Error; err != nil {
		return fmt.Errorf("insert shares: %w", err)
	}
	return nil
}
