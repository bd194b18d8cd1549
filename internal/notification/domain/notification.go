package domain

import (
	"fmt"
	"time"

	taskdomain "ingetin-backend/internal/task/domain"
)

// Notification is a reminder that is due for a task at a given instant.
type Notification struct {
	TaskID   string                    `json:"taskId"`
	Title    string                    `json:"title"`
	Message  string                    `json:"message"`
	Time     string                    `json:"time"`
	Deadline taskdomain.Date           `json:"deadline"`
	Policy   taskdomain.ReminderPolicy `json:"-"`
}

// Evaluate decides whether task's reminder fires at now.
//
// The deadline is a calendar date and is anchored at its midnight in now's
// location. 1-hour and 1-day fire while that midnight is strictly ahead and
// no further than the window. same-day fires for the whole calendar day of
// the deadline, including after its midnight has passed. Any other reminder
// value never fires.
func Evaluate(task *taskdomain.Task, now time.Time) (Notification, bool) {
	if task == nil {
		return Notification{}, false
	}

	remaining := task.Deadline.Midnight(now.Location()).Sub(now)

	var message string
	switch task.Reminder {
	case taskdomain.ReminderOneHour:
		if remaining <= 0 || remaining > time.Hour {
			return Notification{}, false
		}
		message = fmt.Sprintf("Task %q deadline in 1 hour", task.Title)
	case taskdomain.ReminderOneDay:
		if remaining <= 0 || remaining > 24*time.Hour {
			return Notification{}, false
		}
		message = fmt.Sprintf("Task %q deadline tomorrow", task.Title)
	case taskdomain.ReminderSameDay:
		if taskdomain.DateOf(now) != task.Deadline {
			return Notification{}, false
		}
		message = fmt.Sprintf("Task %q deadline today", task.Title)
	default:
		return Notification{}, false
	}

	return Notification{
		TaskID:   task.ID,
		Title:    task.Title,
		Message:  message,
		Time:     now.Format("15:04"),
		Deadline: task.Deadline,
		Policy:   task.Reminder,
	}, true
}

// EvaluateAll applies Evaluate to every task, keeping input order.
func EvaluateAll(tasks []*taskdomain.Task, now time.Time) []Notification {
	out := make([]Notification, 0, len(tasks))
	for _, task := range tasks {
		if n, ok := Evaluate(task, now); ok {
			out = append(out, n)
		}
	}
	return out
}
