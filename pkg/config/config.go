package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv         string `envconfig:"APP_ENV" default:"local"`
	Port           int    `envconfig:"PORT" default:"8080"`
	SentryDSN      string `envconfig:"SENTRY_DSN"`
	AllowOrigins   string `envconfig:"ALLOW_ORIGINS"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	// RateLimit is requests per second per client IP, zero disables limiting.
	RateLimit float64 `envconfig:"RATE_LIMIT" default:"20"`

	DB struct {
		Name       string `envconfig:"DB_NAME"`
		Host       string `envconfig:"DB_HOST" default:"localhost"`
		Port       int    `envconfig:"DB_PORT" default:"5432"`
		User       string `envconfig:"DB_USER"`
		Pass       string `envconfig:"DB_PASS"`
		EnableSSL  bool   `envconfig:"ENABLE_SSL"`
		LogQueries bool   `envconfig:"DB_LOG_QUERIES"`
	}
	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
		TokenTTL  int    `envconfig:"AUTH_TOKEN_TTL" default:"3600"`
	}
	Movies struct {
		MaxPageSize     int `envconfig:"MOVIES_MAX_PAGE_SIZE" default:"25"`
		DefaultPageSize int `envconfig:"MOVIES_DEFAULT_PAGE_SIZE" default:"10"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	if cfg.Movies.DefaultPageSize <= 0 || cfg.Movies.DefaultPageSize > cfg.Movies.MaxPageSize {
		return nil, fmt.Errorf("load config error: MOVIES_DEFAULT_PAGE_SIZE must be within 1..%d", cfg.Movies.MaxPageSize)
	}

	return cfg, nil
}
