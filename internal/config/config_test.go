package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/canchas")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 168*time.Hour, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "facility.yaml", cfg.FacilityFile)
	assert.False(t, cfg.IsProduction)
}

func TestLoad_Production(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/canchas")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PROD_ORIGINS", "https://canchas.example.com")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/canchas")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/canchas")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BCRYPT_COST", "2")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionNeedsOrigins(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/canchas")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PROD_ORIGINS", " ")

	_, err := Load()
	assert.Error(t, err)
}
