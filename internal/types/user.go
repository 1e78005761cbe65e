package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password        string    `gorm:"not null;column:password" json:"-"`
	Role            string    `gorm:"not null;column:role;default:'student'" json:"role"`
	DisplayName     string    `gorm:"not null;column:display_name" json:"display_name"`
	AvatarMediaKey  string    `gorm:"column:avatar_media_key" json:"avatar_media_key"`
	AvatarURL       string    `gorm:"column:avatar_url" json:"avatar_url"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
