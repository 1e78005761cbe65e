package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StudentStats is the denormalized per-student counter row. One row per
// student, materialized lazily: a missing row means "needs initialization",
// never an error.
type StudentStats struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"student_id"`
	CompletedChallenges int            `gorm:"column:completed_challenges;not null;default:0" json:"completed_challenges"`
	TotalPoints         int            `gorm:"column:total_points;not null;default:0" json:"total_points"`
	Engagement          datatypes.JSON `gorm:"type:jsonb;column:engagement" json:"engagement,omitempty"`
	LastActive          time.Time      `gorm:"column:last_active;not null" json:"last_active"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
}

func (StudentStats) TableName() string { return "student_stats" }

// DefaultStudentStats materializes the zero-valued record written on first
// read for a student with no stats row yet.
func DefaultStudentStats(studentID uuid.UUID, now time.Time) *StudentStats {
	return &StudentStats{
		StudentID:           studentID,
		CompletedChallenges: 0,
		TotalPoints:         0,
		LastActive:          now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// StatsDelta names the counter fields ApplyDelta may increment.
type StatsDelta struct {
	CompletedChallenges int
	TotalPoints         int
}
