package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultJWTSecret = "supersecret_change_me"

type Config struct {
	Port        string `env:"PORT" envDefault:"5000"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	ClientURL   string `env:"CLIENT_URL"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	BodyLimit   int64  `env:"BODY_LIMIT_BYTES" envDefault:"10485760"`

	// TrustedProxies lists proxy CIDRs whose X-Forwarded-For is honoured for client IPs.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Admin     AdminSeedConfig
}

// DatabaseConfig describes one endpoint and two credentials. User/Password is the
// standard-privilege key used for public reads; ServiceUser/ServicePassword is the
// elevated key used for admin writes and logins.
type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	Name            string        `env:"DB_NAME" envDefault:"authorsite"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	ServiceUser     string        `env:"DB_SERVICE_USER"`
	ServicePassword string        `env:"DB_SERVICE_PASSWORD"`
	SQLitePath      string        `env:"DB_SQLITE_PATH" envDefault:"data/authorsite.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnectRetries  int           `env:"DB_CONNECT_RETRIES" envDefault:"5"`
	RetryDelay      time.Duration `env:"DB_RETRY_DELAY" envDefault:"1s"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	SeedDefaults    bool          `env:"DB_SEED_DEFAULTS" envDefault:"true"`
}

type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET" envDefault:"supersecret_change_me"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"authorsite_backend"`
}

type RateLimitConfig struct {
	Max      int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RedisURL string        `env:"REDIS_URL"`
}

// AdminSeedConfig creates the first admin on startup when both email and password are set.
type AdminSeedConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
	Name     string `env:"ADMIN_NAME" envDefault:"Admin User"`
}

var (
	ErrDefaultSecret      = errors.New("JWT_SECRET must be set in production")
	ErrElevatedKeyMissing = errors.New("DB_SERVICE_USER and DB_SERVICE_PASSWORD must be set; the elevated handle never reuses the standard key")
	ErrInvalidRateLimit   = errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	ErrUnknownDriver      = errors.New("DB_DRIVER must be postgres or sqlite")
)

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.IsProduction() && c.JWT.Secret == defaultJWTSecret {
		return ErrDefaultSecret
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.ServiceUser == "" || c.Database.ServicePassword == "" {
			return ErrElevatedKeyMissing
		}
	case "sqlite":
	default:
		return ErrUnknownDriver
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PublicDSN builds the connection string for the standard-privilege handle.
func (d DatabaseConfig) PublicDSN() string {
	return d.dsn(d.User, d.Password)
}

// ServiceDSN builds the connection string for the elevated-privilege handle.
func (d DatabaseConfig) ServiceDSN() string {
	return d.dsn(d.ServiceUser, d.ServicePassword)
}

func (d DatabaseConfig) dsn(user, password string) string {
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	q.Set("TimeZone", "UTC")
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
