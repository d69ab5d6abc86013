package models

import "github.com/google/uuid"

// PropertyAmenity is one membership pair of the property↔amenity relation.
// The composite primary key keeps the pair set duplicate-free.
type PropertyAmenity struct {
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;primaryKey"`
	AmenityID  uuid.UUID `gorm:"column:amenity_id;type:uuid;primaryKey"`
}

func (PropertyAmenity) TableName() string {
	return "property_amenities"
}
