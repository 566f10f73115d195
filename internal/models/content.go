package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentSection is a named block of marketing copy. Section is the public lookup key.
type ContentSection struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Section    string    `gorm:"size:128;uniqueIndex;not null" json:"section"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	OrderIndex int       `gorm:"index" json:"order_index"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ContentSection) TableName() string { return "website_content" }

func (s *ContentSection) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
