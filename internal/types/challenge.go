package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

type Challenge struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	Difficulty  string         `gorm:"not null;column:difficulty" json:"difficulty"`
	DueDate     time.Time      `gorm:"column:due_date" json:"due_date"`
	Progress    int            `gorm:"column:progress;not null;default:0" json:"progress"`
	StudentID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	Status      string         `gorm:"column:status;not null;default:'active'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Challenge) TableName() string { return "challenge" }
