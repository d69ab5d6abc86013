package models

import (
	"time"

	"github.com/google/uuid"
)

// Seller is a person who can be attached to a property as a co-seller.
type Seller struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	Phone     *string   `gorm:"column:phone"`
	Email     *string   `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Seller) TableName() string {
	return "sellers"
}
