package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectAnalytics is the advisory per-project counter row, one per
// project. Lazily initialized with all-zero defaults the first time the
// workflow layer touches the project; counters here are not authoritative
// and are updated outside the milestone-creation transaction.
type ProjectAnalytics struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	ComplexityScore     int            `gorm:"column:complexity_score;not null;default:0" json:"complexity_score"`
	LinesOfCode         int            `gorm:"column:lines_of_code;not null;default:0" json:"lines_of_code"`
	TimeSpent           int            `gorm:"column:time_spent;not null;default:0" json:"time_spent"`
	MilestoneCount      int            `gorm:"column:milestone_count;not null;default:0" json:"milestone_count"`
	CompletedMilestones int            `gorm:"column:completed_milestones;not null;default:0" json:"completed_milestones"`
	LanguageBreakdown   datatypes.JSON `gorm:"type:jsonb;column:language_breakdown" json:"language_breakdown,omitempty"`
	LastUpdated         time.Time      `gorm:"column:last_updated;not null" json:"last_updated"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
}

func (ProjectAnalytics) TableName() string { return "project_analytics" }

// ProjectMetrics is the derived milestone-completion summary returned by
// AnalyticsService.ProjectMetrics.
type ProjectMetrics struct {
	TotalMilestones     int       `json:"total_milestones"`
	CompletedMilestones int       `json:"completed_milestones"`
	ProgressPercentage  float64   `json:"progress_percentage"`
	TimeSpent           int       `json:"time_spent"`
	LastUpdated         time.Time `json:"last_updated"`
}
