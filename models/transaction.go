package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is an income or expense entry owned by a single user.
// CategoryName is a snapshot of the category name taken when the category
// reference was last written.
type Transaction struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"size:36;not null;index" json:"user_id"`
	Type         EntryType `gorm:"size:16;not null" json:"type"`
	CategoryID   string    `gorm:"size:36;not null;index" json:"category_id"`
	CategoryName string    `gorm:"size:255" json:"category_name"`
	Amount       float64   `gorm:"not null" json:"amount"`
	Description  *string   `json:"description"`
	Date         string    `gorm:"size:64;not null;index" json:"date"` // caller supplied, ISO 8601 sorts correctly
	CreatedAt    time.Time `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
