package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/zaqqye/authorsite_backend/internal/config"
	"github.com/zaqqye/authorsite_backend/internal/models"
	"github.com/zaqqye/authorsite_backend/internal/utils"
)

// SeedAdmin creates the first admin account when none exists and credentials
// were supplied through the environment. An account already holding the seed
// email counts as seeded whatever its role.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg config.AdminSeedConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	var count int64
	if err := db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("role = ? OR email = ?", "admin", email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin, err := CreateAdmin(ctx, db, email, cfg.Password, cfg.Name, "admin")
	if errors.Is(err, ErrAdminExists) {
		log.Info().Str("email", email).Msg("seed admin already present")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("email", admin.Email).Msg("seeded initial admin")
	return nil
}

// ErrAdminExists is returned when the email already belongs to an admin account.
var ErrAdminExists = errors.New("admin user already exists")

// CreateAdmin hashes the password and inserts an AdminUser. Emails are stored
// lowercased so logins are case-insensitive.
func CreateAdmin(ctx context.Context, db *gorm.DB, email, password, name, role string) (*models.AdminUser, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin := models.AdminUser{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hashed,
		Name:     name,
		Role:     role,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return &admin, nil
}

// DefaultSections are the pages the public site renders.
var DefaultSections = []models.ContentSection{
	{Section: "home", Title: "Welcome", Content: "Welcome to the official website.", OrderIndex: 0, IsActive: true},
	{Section: "about-author", Title: "About the Author", Content: "Learn more about the author.", OrderIndex: 1, IsActive: true},
	{Section: "about-book", Title: "About the Book", Content: "Discover the book.", OrderIndex: 2, IsActive: true},
	{Section: "blog", Title: "Blog", Content: "Thoughts, news and updates.", OrderIndex: 3, IsActive: true},
	{Section: "contact", Title: "Contact", Content: "Get in touch.", OrderIndex: 4, IsActive: true},
}

var DefaultMenu = []models.MenuItem{
	{Label: "Home", URL: "/", OrderIndex: 0, IsActive: true},
	{Label: "About Author", URL: "/about-author", OrderIndex: 1, IsActive: true},
	{Label: "About Book", URL: "/about-book", OrderIndex: 2, IsActive: true},
	{Label: "Blog", URL: "/blog", OrderIndex: 3, IsActive: true},
	{Label: "Contact", URL: "/contact", OrderIndex: 4, IsActive: true},
}

// SeedDefaults fills empty content and menu tables with placeholder rows so a
// fresh install renders every page. Tables that already hold rows are left alone.
func SeedDefaults(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.ContentSection{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		rows := make([]models.ContentSection, len(DefaultSections))
		copy(rows, DefaultSections)
		if err := db.WithContext(ctx).Create(&rows).Error; err != nil {
			return err
		}
		log.Info().Int("rows", len(rows)).Msg("seeded default content sections")
	}

	if err := db.WithContext(ctx).Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		rows := make([]models.MenuItem, len(DefaultMenu))
		copy(rows, DefaultMenu)
		if err := db.WithContext(ctx).Create(&rows).Error; err != nil {
			return err
		}
		log.Info().Int("rows", len(rows)).Msg("seeded default menu items")
	}
	return nil
}
