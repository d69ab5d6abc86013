package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quyetngv/bds-backend/pkg/enums"
)

// Property is the root listing aggregate edited by the admin UI.
type Property struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Title       string               `gorm:"column:title;not null"`
	ListingType enums.ListingType    `gorm:"column:listing_type;not null"`
	Price       decimal.Decimal      `gorm:"column:price;type:numeric(18,2);not null"`
	Currency    string               `gorm:"column:currency;not null"`
	Negotiable  bool                 `gorm:"column:negotiable;not null"`
	Area        float64              `gorm:"column:area;not null"`
	Address     string               `gorm:"column:address;not null"`
	Ward        *string              `gorm:"column:ward"`
	District    string               `gorm:"column:district;not null"`
	City        string               `gorm:"column:city;not null"`
	ProjectID   *uuid.UUID           `gorm:"column:project_id;type:uuid"`
	Status      enums.PropertyStatus `gorm:"column:status;not null"`
	Bedrooms    *int                 `gorm:"column:bedrooms"`
	Bathrooms   *int                 `gorm:"column:bathrooms"`
	Floors      *int                 `gorm:"column:floors"`
	FloorNumber *int                 `gorm:"column:floor_number"`
	Featured    bool                 `gorm:"column:featured;not null"`
	Verified    bool                 `gorm:"column:verified;not null"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (Property) TableName() string {
	return "properties"
}
