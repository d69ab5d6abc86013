package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quyetngv/bds-backend/pkg/enums"
)

// FbGroup is a configured Facebook group. Only active target groups with a
// non-null external group id are eligible for fan-out.
type FbGroup struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	GroupID   *string         `gorm:"column:group_id"`
	URL       *string         `gorm:"column:url"`
	Kind      enums.GroupKind `gorm:"column:kind;not null"`
	IsActive  bool            `gorm:"column:is_active;not null"`
	Note      *string         `gorm:"column:note"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (FbGroup) TableName() string {
	return "fb_groups"
}
