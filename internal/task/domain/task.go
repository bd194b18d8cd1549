package domain

import "time"

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// ReminderPolicy selects which deadline reminder a task receives.
type ReminderPolicy string

const (
	ReminderNone    ReminderPolicy = "none"
	ReminderOneHour ReminderPolicy = "1-hour"
	ReminderOneDay  ReminderPolicy = "1-day"
	ReminderSameDay ReminderPolicy = "same-day"
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	UserID      string         `json:"user_id" gorm:"index;not null"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description *string        `json:"description"`
	Deadline    Date           `json:"deadline" gorm:"type:date;not null;index"`
	Priority    Priority       `json:"priority" gorm:"default:medium"`
	Status      TaskStatus     `json:"status" gorm:"default:todo"`
	Reminder    ReminderPolicy `json:"reminder" gorm:"default:none"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	ChecklistItems []ChecklistItem `json:"checklist_items" gorm:"foreignKey:TaskID"`
	SharedTasks    []SharedTask    `json:"shared_tasks" gorm:"foreignKey:TaskID"`
	Owner          *TaskOwner      `json:"owner,omitempty" gorm:"foreignKey:UserID"`
}

// ChecklistItem is an ordered sub-item of a task.
type ChecklistItem struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TaskID    string    `json:"task_id" gorm:"index;not null"`
	Text      string    `json:"text" gorm:"not null"`
	Completed bool      `json:"completed" gorm:"default:false"`
	Order     int       `json:"order" gorm:"column:sort_order;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SharedTask grants a collaborator, identified only by email, access to a task.
// The email need not belong to a registered account.
type SharedTask struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	TaskID            string    `json:"task_id" gorm:"index;not null"`
	OwnerID           string    `json:"owner_id" gorm:"index;not null"`
	CollaboratorEmail string    `json:"collaborator_email" gorm:"index;not null"`
	SharedAt          time.Time `json:"shared_at" gorm:"autoCreateTime"`
}

// TaskOwner is the public projection of the owning user.
type TaskOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (TaskOwner) TableName() string {
	return "users"
}

// CollaboratorEmails lists the emails the task is shared with.
func (t *Task) CollaboratorEmails() []string {
	emails := make([]string, 0, len(t.SharedTasks))
	for _, s := range t.SharedTasks {
		emails = append(emails, s.CollaboratorEmail)
	}
	return emails
}

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

func ValidReminder(r ReminderPolicy) bool {
	switch r {
	case ReminderNone, ReminderOneHour, ReminderOneDay, ReminderSameDay:
		return true
	}
	return false
}
