package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is an optional parent grouping for properties.
type Project struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Project) TableName() string {
	return "projects"
}
