package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/canchas/internal/app"
	"github.com/nekogravitycat/canchas/internal/config"
	"github.com/nekogravitycat/canchas/internal/db"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/logging"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.IsProduction, cfg.LogLevel)

	settings, err := facility.Load(cfg.FacilityFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.FacilityFile).Msg("failed to load facility settings")
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	if err := db.Migrate(pool); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate db")
	}

	container := app.NewContainer(app.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		DBPool:         pool,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTAccessTokenTTL,
		BcryptCost:     cfg.BcryptCost,
		Facility:       settings,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("timezone", settings.Location.String()).Msg("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server terminated with error")
		os.Exit(1)
	}
	log.Info().Msg("server exited gracefully")
}
