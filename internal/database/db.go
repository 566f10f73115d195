package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zaqqye/authorsite_backend/internal/config"
	"github.com/zaqqye/authorsite_backend/internal/models"
)

// Clients holds the two database handles. Public is opened with the
// standard-privilege key and serves anonymous reads; Admin is opened with the
// elevated key and serves admin reads, writes and logins.
type Clients struct {
	Public *gorm.DB
	Admin  *gorm.DB
}

var ErrNotConnected = errors.New("database handle is not initialized")

func Connect(ctx context.Context, cfg config.DatabaseConfig, production bool) (*Clients, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(production),
	}

	var publicDial, adminDial gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dsn := cfg.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		publicDial, adminDial = sqlite.Open(dsn), sqlite.Open(dsn)
	default:
		publicDial, adminDial = postgres.Open(cfg.PublicDSN()), postgres.Open(cfg.ServiceDSN())
	}

	public, err := openWithRetry(ctx, "public", publicDial, gcfg, cfg)
	if err != nil {
		return nil, err
	}
	admin, err := openWithRetry(ctx, "admin", adminDial, gcfg, cfg)
	if err != nil {
		closeHandle(public)
		return nil, err
	}
	return &Clients{Public: public, Admin: admin}, nil
}

// gormLogWriter forwards GORM's query log into zerolog.
type gormLogWriter struct{}

func (gormLogWriter) Printf(format string, args ...interface{}) {
	log.Warn().Str("component", "gorm").Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func newGormLogger(production bool) logger.Interface {
	level := logger.Warn
	if production {
		level = logger.Error
	}
	return logger.New(gormLogWriter{}, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// openWithRetry opens a handle and pings it, backing off exponentially between
// attempts. Only startup retries; request-time queries never do.
func openWithRetry(ctx context.Context, name string, dial gorm.Dialector, gcfg *gorm.Config, cfg config.DatabaseConfig) (*gorm.DB, error) {
	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := gorm.Open(dial, gcfg)
		if err == nil {
			err = configurePool(ctx, db, cfg)
			if err == nil {
				log.Info().Str("handle", name).Int("attempt", attempt).Msg("database connected")
				return db, nil
			}
			closeHandle(db)
		}
		lastErr = err
		log.Warn().Err(err).Str("handle", name).Int("attempt", attempt).Msg("database connection failed")

		if attempt < attempts {
			delay := cfg.RetryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("connect %s handle cancelled: %w", name, ctx.Err())
			}
		}
	}
	return nil, fmt.Errorf("connect %s handle after %d attempts: %w", name, attempts, lastErr)
}

func configurePool(ctx context.Context, db *gorm.DB, cfg config.DatabaseConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ContentSection{},
		&models.MenuItem{},
		&models.BlogPost{},
		&models.AdminUser{},
	)
}

// Ping checks both handles.
func (c *Clients) Ping(ctx context.Context) error {
	if c == nil || c.Public == nil || c.Admin == nil {
		return ErrNotConnected
	}
	for _, db := range []*gorm.DB{c.Public, c.Admin} {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
	}
	return nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	closeHandle(c.Public)
	closeHandle(c.Admin)
}

func closeHandle(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
