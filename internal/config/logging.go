package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds the process logger from LoggingConfig. Unknown levels
// fall back to info; the console format is meant for local development.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(logOutput(cfg.Format)).
		Level(logLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	// Keep the package-global logger in sync for code that logs before the
	// configured logger is threaded through.
	log.Logger = logger
	return logger
}

func logLevel(value string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(value))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func logOutput(format string) io.Writer {
	if strings.EqualFold(format, "console") {
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return os.Stdout
}
