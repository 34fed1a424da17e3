package models

import (
	"time"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task is owned by exactly one identity. OwnerID is never updated after insert.
type Task struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     string     `gorm:"size:255;not null;index:idx_tasks_owner_created,priority:1" json:"ownerId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"size:2000" json:"description"`
	DueDate     *time.Time `gorm:"type:date" json:"dueDate"`
	Priority    string     `gorm:"size:16;not null;default:'medium'" json:"priority"`
	Status      string     `gorm:"size:16;not null;default:'pending'" json:"status"`
	Project     *string    `gorm:"size:100" json:"project"`
	CreatedAt   time.Time  `gorm:"index:idx_tasks_owner_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}
