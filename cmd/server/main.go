package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zaqqye/authorsite_backend/internal/config"
	"github.com/zaqqye/authorsite_backend/internal/database"
	"github.com/zaqqye/authorsite_backend/internal/logger"
	"github.com/zaqqye/authorsite_backend/internal/middleware"
	"github.com/zaqqye/authorsite_backend/internal/routes"
	"github.com/zaqqye/authorsite_backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.Environment, cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	if err := database.SeedAdmin(ctx, db.Admin, cfg.Admin); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}
	if cfg.Database.SeedDefaults {
		if err := database.SeedDefaults(ctx, db.Admin); err != nil {
			log.Fatal().Err(err).Msg("default content seed failed")
		}
	}

	limiter, closeLimiter := newLimiter(ctx, cfg.RateLimit)
	defer closeLimiter()

	hub := ws.NewHub()
	go hub.Run(ctx)

	router := routes.New(routes.Deps{Config: cfg, DB: db, Limiter: limiter, Events: hub})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Environment).
			Str("db_driver", cfg.Database.Driver).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// newLimiter prefers a shared Redis store when REDIS_URL is set and falls back
// to process memory when it is unset or unreachable.
func newLimiter(ctx context.Context, cfg config.RateLimitConfig) (middleware.Limiter, func()) {
	if cfg.RedisURL != "" {
		client, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			log.Info().Msg("rate limiting backed by redis")
			return middleware.NewRedisLimiter(client, cfg.Max, cfg.Window), func() { _ = client.Close() }
		}
		log.Warn().Err(err).Msg("redis unavailable, rate limiting in memory")
	}
	mem := middleware.NewMemoryLimiter(cfg.Max, cfg.Window)
	return mem, mem.Stop
}
