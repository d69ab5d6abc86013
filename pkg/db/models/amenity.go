package models

import (
	"time"

	"github.com/google/uuid"
)

// Amenity is a selectable feature linked to properties through property_amenities.
type Amenity struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;unique"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Amenity) TableName() string {
	return "amenities"
}
