package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quyetngv/bds-backend/pkg/enums"
)

// FbPublishedPost is one delivery attempt to one group. Rows are append-only:
// a re-publish appends new records instead of mutating old ones, so the table
// is a durable audit trail. In relay mode rows start out pending and the
// automation worker finalizes them.
type FbPublishedPost struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	PropertyID   uuid.UUID           `gorm:"column:property_id;type:uuid;not null;index"`
	GroupID      string              `gorm:"column:group_id;not null"`
	GroupName    string              `gorm:"column:group_name;not null"`
	Message      string              `gorm:"column:message;not null"`
	ResultPostID *string             `gorm:"column:result_post_id"`
	Status       enums.PublishStatus `gorm:"column:status;not null"`
	ErrorMessage *string             `gorm:"column:error_message"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime;index"`
}

func (FbPublishedPost) TableName() string {
	return "fb_published_posts"
}
