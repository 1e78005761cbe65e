package types

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is append-only. ParentID threads replies under an earlier entry.
type Feedback struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	AuthorRole string     `gorm:"not null;column:author_role" json:"author_role"`
	Content    string     `gorm:"not null;column:content" json:"content"`
	ParentID   *uuid.UUID `gorm:"type:uuid;column:parent_id" json:"parent_id,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }
