package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyImage stores ordered gallery entries for a property.
//
// At most one row per property carries is_primary = true. The flag is
// maintained by internal/images, not by a store constraint; readers must
// tolerate a momentary zero-primary state and fall back to first-by-order.
type PropertyImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PropertyID   uuid.UUID `gorm:"column:property_id;type:uuid;not null;index"`
	URL          string    `gorm:"column:url;not null"`
	Caption      *string   `gorm:"column:caption"`
	DisplayOrder int       `gorm:"column:display_order;not null"`
	IsPrimary    bool      `gorm:"column:is_primary;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}
