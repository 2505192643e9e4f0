package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups transactions. Default categories (IsCustom false) have no
// owner and are shared by everyone; custom ones belong to UserID only.
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_category_scope" json:"name"`
	Type      EntryType `gorm:"size:16;not null;uniqueIndex:idx_category_scope" json:"type"`
	IsCustom  bool      `gorm:"not null;index" json:"is_custom"`
	UserID    *string   `gorm:"size:36;uniqueIndex:idx_category_scope" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// VisibleTo reports whether userID may read or reference the category.
func (c Category) VisibleTo(userID string) bool {
	if !c.IsCustom {
		return true
	}
	return c.UserID != nil && *c.UserID == userID
}
