package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dom/task-tracker/internal/config"
)

// New builds the application logger. Development gets a human readable
// console writer, everything else logs JSON to stdout.
func New(cfg *config.Config) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	w := io.Writer(os.Stdout)
	switch cfg.Environment {
	case config.EnvDevelopment:
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	case config.EnvTest:
		w = io.Discard
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("env", cfg.Environment).
		Int("pid", os.Getpid()).
		Logger()
}
