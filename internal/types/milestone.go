package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in_progress"
	MilestoneStatusCompleted  = "completed"
)

// Milestone rows belong to a project. SortOrder is assigned once at
// creation time (count of existing milestones + 1) and listing always
// sorts by it ascending, never by insertion order.
type Milestone struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Title       string     `gorm:"not null;column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	DueDate     time.Time  `gorm:"column:due_date" json:"due_date"`
	Status      string     `gorm:"column:status;not null;default:'pending'" json:"status"`
	SortOrder   int        `gorm:"column:sort_order;not null" json:"order"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Milestone) TableName() string { return "milestone" }
