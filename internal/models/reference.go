package models

import "time"

// Reference data. Positions, task types and tags keep numeric addressing;
// only Worker and Task carry slugs.

type Position struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Workers []Worker `json:"workers,omitempty" gorm:"foreignKey:PositionID"`
}

type TaskType struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tasks []Task `json:"tasks,omitempty" gorm:"many2many:task_tags;"`
}

// All returns every model for auto-migration, parents before children.
func All() []interface{} {
	return []interface{}{
		&Position{},
		&TaskType{},
		&Tag{},
		&Worker{},
		&Task{},
	}
}
