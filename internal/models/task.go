package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Priority string

const (
	PriorityUrgent Priority = "Urgent and important"
	PriorityHigh   Priority = "High priority"
	PriorityMedium Priority = "Medium priority"
	PriorityLow    Priority = "Low priority"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task is addressed externally by its slug, recomputed from Name on every
// save. Deleting a TaskType cascades to its tasks.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" gorm:"not null"`
	IsCompleted bool      `json:"is_completed" gorm:"not null;default:false"`
	Priority    Priority  `json:"priority" gorm:"not null"`

	TaskTypeID uint     `json:"task_type_id" gorm:"not null"`
	TaskType   TaskType `json:"task_type" gorm:"constraint:OnDelete:CASCADE"`

	Slug string `json:"slug" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Assignees []Worker `json:"assignees,omitempty" gorm:"many2many:task_assignees;"`
	Tags      []Tag    `json:"tags,omitempty" gorm:"many2many:task_tags;"`
}
