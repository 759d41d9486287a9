// Command seed writes the facility's courts and the admin account to the database.
package main

import (
	"context"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/canchas/internal/app"
	"github.com/nekogravitycat/canchas/internal/config"
	"github.com/nekogravitycat/canchas/internal/db"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.IsProduction, cfg.LogLevel)

	settings, err := facility.Load(cfg.FacilityFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.FacilityFile).Msg("failed to load facility settings")
	}
	if len(settings.Courts) == 0 {
		log.Warn().Str("path", cfg.FacilityFile).Msg("facility file lists no courts")
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	if err := db.Migrate(pool); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate db")
	}

	container := app.NewContainer(app.Config{
		DBPool:     pool,
		JWTSecret:  cfg.JWTSecret,
		JWTTTL:     cfg.JWTAccessTokenTTL,
		BcryptCost: cfg.BcryptCost,
		Facility:   settings,
	})

	if err := container.Seed(ctx, settings.Courts, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}
