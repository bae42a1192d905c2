package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration, read from the environment.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Web       WebConfig
	Seed      SeedConfig
}

type ServerConfig struct {
	Port            string        `env:"HTTP_PORT"               env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"       env-default:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"      env-default:"60s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"       env-default:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"   env-default:"10s"`
}

type DatabaseConfig struct {
	Type            string        `env:"DB_TYPE"               env-default:"postgres"`
	URL             string        `env:"DATABASE_URL"          env-required:"true"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"     env-default:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME"  env-default:"1h"`
}

type AuthConfig struct {
	Secret       string        `env:"SESSION_SECRET"         env-required:"true"`
	SessionTTL   time.Duration `env:"SESSION_TTL"            env-default:"720h"`
	RefreshAfter time.Duration `env:"SESSION_REFRESH_AFTER"  env-default:"24h"`
	CookieName   string        `env:"SESSION_COOKIE"         env-default:"siar_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE"  env-default:"false"`
}

type UploadConfig struct {
	Dir          string `env:"UPLOAD_DIR"            env-default:"./public/uploads"`
	PublicPrefix string `env:"UPLOAD_PUBLIC_PREFIX"  env-default:"/uploads"`
	MaxBytes     int64  `env:"UPLOAD_MAX_BYTES"      env-default:"33554432"`
}

type RateLimitConfig struct {
	Burst     int     `env:"AUTH_RATE_BURST"       env-default:"10"`
	PerSecond float64 `env:"AUTH_RATE_PER_SECOND"  env-default:"1"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

type WebConfig struct {
	Dir string `env:"WEB_DIR"`
}

type SeedConfig struct {
	DefaultAccounts bool `env:"SEED_DEFAULT_ACCOUNTS" env-default:"false"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Type {
	case "postgres", "postgresql", "mysql", "mariadb", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_TYPE %q is not supported", c.Database.Type))
	}
	if c.Database.MaxOpenConns < 1 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be positive"))
	}
	if len(c.Auth.Secret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 bytes"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Auth.RefreshAfter <= 0 || c.Auth.RefreshAfter >= c.Auth.SessionTTL {
		errs = append(errs, errors.New("SESSION_REFRESH_AFTER must be positive and shorter than SESSION_TTL"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if c.RateLimit.Burst < 1 || c.RateLimit.PerSecond <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_BURST and AUTH_RATE_PER_SECOND must be positive"))
	}
	return errors.Join(errs...)
}
