package models

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

// Worker is the authenticated account of the application. Workers are
// addressed externally by their slug, never by the primary key.
type Worker struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-" gorm:"not null"`

	PositionID *uint     `json:"position_id"`
	Position   *Position `json:"position,omitempty"`

	// Slug is recomputed from Username on every save.
	Slug string `json:"slug" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tasks []Task `json:"tasks,omitempty" gorm:"many2many:task_assignees;"`
}

func (w Worker) String() string {
	return fmt.Sprintf("%s (%s %s)", w.Username, w.FirstName, w.LastName)
}
