package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeFeedback  = "feedback"
	NotificationTypeMilestone = "milestone"
	NotificationTypeProject   = "project"
	NotificationTypeSystem    = "system"
)

// Notification rows are only ever created as side effects of other
// workflows; the sole user-driven mutation is the read flag.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"not null;column:type" json:"type"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	Message   string    `gorm:"not null;column:message" json:"message"`
	Read      bool      `gorm:"column:read;not null;default:false" json:"read"`
	Link      string    `gorm:"column:link" json:"link,omitempty"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }
