package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogPost is a blog entry. Only rows with Published set are visible on the public site.
type BlogPost struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	Excerpt         string    `gorm:"type:text" json:"excerpt"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	ImageURL        *string   `json:"image_url"`
	MetaTitle       *string   `json:"meta_title"`
	MetaDescription *string   `gorm:"type:text" json:"meta_description"`
	MetaKeywords    *string   `json:"meta_keywords"`
	Slug            string    `gorm:"index" json:"slug"`
	Author          *string   `json:"author"`
	ReadingTime     *string   `json:"reading_time"`
	Featured        bool      `json:"featured"`
	Category        *string   `json:"category"`
	Tags            *string   `json:"tags"`
	Published       bool      `gorm:"index" json:"published"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (BlogPost) TableName() string { return "blogs" }

func (b *BlogPost) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
