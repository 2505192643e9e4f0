package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User model. PasswordHash holds a bcrypt hash and never leaves the process.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
	PasswordHash []byte    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"size:32;not null;index" json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
