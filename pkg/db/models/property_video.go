package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyVideo holds one video URL for a property. The whole set for a
// property is replaced wholesale on every save; rows carry no other state.
type PropertyVideo struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;index"`
	URL        string    `gorm:"column:url;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PropertyVideo) TableName() string {
	return "property_videos"
}
