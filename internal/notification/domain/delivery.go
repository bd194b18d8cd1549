package domain

import (
	"time"

	taskdomain "ingetin-backend/internal/task/domain"
)

// ReminderDelivery records that a push reminder went to a user, so the
// dispatcher sends each (task, user, policy, deadline) at most once.
type ReminderDelivery struct {
	ID       string                    `gorm:"primaryKey"`
	TaskID   string                    `gorm:"not null;uniqueIndex:idx_reminder_delivery"`
	UserID   string                    `gorm:"not null;uniqueIndex:idx_reminder_delivery"`
	Policy   taskdomain.ReminderPolicy `gorm:"not null;uniqueIndex:idx_reminder_delivery"`
	Deadline taskdomain.Date           `gorm:"type:date;not null;uniqueIndex:idx_reminder_delivery"`
	SentAt   time.Time
}
