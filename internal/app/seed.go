package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/canchas/internal/court"
)

// Seed writes the facility's courts and, when credentials are given, the admin account.
func (c *Container) Seed(ctx context.Context, courts []court.Court, adminEmail, adminPassword string) error {
	logger := zerolog.Ctx(ctx)

	n, err := c.CourtService.Seed(ctx, courts)
	if err != nil {
		return fmt.Errorf("seed courts: %w", err)
	}
	logger.Info().Int("courts", n).Msg("courts seeded")

	if adminEmail == "" || adminPassword == "" {
		logger.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	u, err := c.UserService.EnsureAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info().Str("email", u.Email).Msg("admin account ready")
	return nil
}
