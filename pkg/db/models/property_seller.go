package models

import "github.com/google/uuid"

// PropertySeller is one membership pair of the property↔seller relation.
type PropertySeller struct {
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;primaryKey"`
	SellerID   uuid.UUID `gorm:"column:seller_id;type:uuid;primaryKey"`
}

func (PropertySeller) TableName() string {
	return "property_sellers"
}
