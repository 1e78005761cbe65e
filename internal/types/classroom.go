package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Classroom struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string         `gorm:"not null;column:name" json:"name"`
	TeacherID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacher_id"`
	StudentCount    int            `gorm:"column:student_count;not null;default:0" json:"student_count"`
	ActiveProjects  int            `gorm:"column:active_projects;not null;default:0" json:"active_projects"`
	AverageProgress float64        `gorm:"column:average_progress;not null;default:0" json:"average_progress"`
	LastUpdated     time.Time      `gorm:"column:last_updated;not null" json:"last_updated"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Classroom) TableName() string { return "classroom" }

// ClassroomStudent is a lightweight roster entry scoped to one classroom,
// distinct from the global User profile.
type ClassroomStudent struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClassroomID uuid.UUID  `gorm:"type:uuid;not null;index" json:"classroom_id"`
	Classroom   *Classroom `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClassroomID;references:ID" json:"classroom,omitempty"`
	DisplayName string     `gorm:"not null;column:display_name" json:"display_name"`
	Email       string     `gorm:"not null;column:email" json:"email"`
	Status      string     `gorm:"column:status;not null;default:'active'" json:"status"`
	Progress    int        `gorm:"column:progress;not null;default:0" json:"progress"`
	JoinDate    time.Time  `gorm:"column:join_date;not null" json:"join_date"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (ClassroomStudent) TableName() string { return "classroom_student" }
