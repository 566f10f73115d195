package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zaqqye/authorsite_backend/internal/config"
	"github.com/zaqqye/authorsite_backend/internal/database"
	"github.com/zaqqye/authorsite_backend/internal/logger"
)

type options struct {
	email    string
	password string
	name     string
	role     string
}

var errUsage = errors.New("both -email and a -password of at least 8 characters are required")

// loadOptions reads the env file first so ADMIN_EMAIL and ADMIN_PASSWORD from
// it become the flag defaults.
func loadOptions(envFile string, args []string) (options, *flag.FlagSet, error) {
	_ = godotenv.Load(envFile)

	var o options
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.StringVar(&o.email, "email", os.Getenv("ADMIN_EMAIL"), "admin email")
	fs.StringVar(&o.password, "password", os.Getenv("ADMIN_PASSWORD"), "admin password (min 8 chars)")
	fs.StringVar(&o.name, "name", "Admin User", "display name")
	fs.StringVar(&o.role, "role", "admin", "role: admin or editor")
	if err := fs.Parse(args); err != nil {
		return o, fs, err
	}

	if o.email == "" || len(o.password) < 8 {
		return o, fs, errUsage
	}
	if o.role != "admin" && o.role != "editor" {
		return o, fs, errors.New("-role must be admin or editor")
	}
	return o, fs, nil
}

// create-admin inserts an AdminUser through the elevated handle.
//
//	go run ./cmd/create-admin -email admin@example.com -password 'secret123' -name 'Jane Doe'
func main() {
	opts, fs, err := loadOptions(".env", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			fs.Usage()
		}
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.Environment, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db.Admin); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
	}

	admin, err := database.CreateAdmin(ctx, db.Admin, opts.email, opts.password, opts.name, opts.role)
	if errors.Is(err, database.ErrAdminExists) {
		log.Error().Str("email", opts.email).Msg("admin user already exists")
		db.Close()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create admin user")
	}

	log.Info().
		Str("id", admin.ID).
		Str("email", admin.Email).
		Str("role", admin.Role).
		Msg("admin user created")
}
