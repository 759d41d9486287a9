package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"dev"`
	IsProduction bool   `ignored:"true"`
	ProdOrigins  string `envconfig:"PROD_ORIGINS"`
	HTTPAddr     string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	DBDSN string `envconfig:"DB_DSN" required:"true"`

	JWTSecret         string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"168h"`
	BcryptCost        int           `envconfig:"BCRYPT_COST" default:"12"`

	// Facility settings (hours, slot sizes, courts) live in a YAML file.
	FacilityFile string `envconfig:"FACILITY_FILE" default:"facility.yaml"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"1"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"10"`

	// Used by cmd/seed only.
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	cfg.IsProduction = cfg.AppEnv == PROD_STRING

	// envconfig accepts a required variable that is set but empty
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.IsProduction && strings.TrimSpace(cfg.ProdOrigins) == "" {
		return nil, fmt.Errorf("PROD_ORIGINS is required in production")
	}

	if cfg.JWTAccessTokenTTL <= 0 {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: must be positive")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("invalid BCRYPT_COST %d: must be between 4 and 31", cfg.BcryptCost)
	}

	return cfg, nil
}
