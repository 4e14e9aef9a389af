package task

import (
	"time"
)

// Task represents a single task owned by exactly one user. All reads and
// writes are scoped to the owner; another user's token cannot observe the
// task's existence.
type Task struct {
	ID          string `gorm:"primaryKey;type:text"`
	Description string `gorm:"not null;type:text"`
	Completed   bool   `gorm:"not null;default:false"`
	OwnerID     string `gorm:"index;not null;type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
