// Package logging configures the process-wide zerolog logger.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup sets the global level and output. Outside production logs are
// human-readable; in production they are JSON lines.
func Setup(isProduction bool, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if !isProduction {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// zerolog.Ctx falls back to the global logger for contexts without one.
	zerolog.DefaultContextLogger = &log.Logger
}
