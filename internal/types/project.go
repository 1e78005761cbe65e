package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProjectTypeFrontend  = "Frontend"
	ProjectTypeBackend   = "Backend"
	ProjectTypeFullStack = "FullStack"

	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

type Project struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string         `gorm:"not null;column:title" json:"title"`
	Type             string         `gorm:"not null;column:type" json:"type"`
	StudentID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	Status           string         `gorm:"column:status;not null;default:'planning'" json:"status"`
	Progress         int            `gorm:"column:progress;not null;default:0" json:"progress"`
	TotalMilestones  int            `gorm:"column:total_milestones;not null;default:0" json:"total_milestones"`
	CurrentMilestone int            `gorm:"column:current_milestone;not null;default:0" json:"current_milestone"`
	LastUpdated      time.Time      `gorm:"column:last_updated;not null" json:"last_updated"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Project) TableName() string { return "project" }
