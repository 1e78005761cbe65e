package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionStatusPending   = "pending"
	SubmissionStatusReviewed  = "reviewed"
	SubmissionStatusCompleted = "completed"
)

type Submission struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID uuid.UUID  `gorm:"type:uuid;not null;index" json:"challenge_id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	Content     string     `gorm:"not null;column:content" json:"content"`
	Status      string     `gorm:"column:status;not null;default:'pending'" json:"status"`
	Score       *int       `gorm:"column:score" json:"score,omitempty"`
	SubmittedAt time.Time  `gorm:"column:submitted_at;not null" json:"submitted_at"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Submission) TableName() string { return "submission" }
