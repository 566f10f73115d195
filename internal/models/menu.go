package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem is a navigation entry for the public site header.
type MenuItem struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Label      string    `gorm:"not null" json:"label"`
	URL        string    `gorm:"not null" json:"url"`
	OrderIndex int       `gorm:"index" json:"order_index"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (MenuItem) TableName() string { return "menu_items" }

func (m *MenuItem) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
