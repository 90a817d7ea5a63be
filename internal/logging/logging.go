package logging

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New creates a logger writing JSON lines to the given file. The TUI owns
// the terminal, so nothing may log to stdout or stderr while it runs.
func New(path string) (zerolog.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), err
	}

	return zerolog.New(f).
		Level(levelFromEnv()).
		With().
		Timestamp().
		Logger(), nil
}

// NewFromEnv creates the default file logger at ~/.config/bmexp/bmexp.log.
// On any setup failure it returns a no-op logger: logging must never keep
// the app from starting.
func NewFromEnv() zerolog.Logger {
	home, err := os.UserHomeDir()
	if err != nil {
		return zerolog.Nop()
	}
	logger, err := New(filepath.Join(home, ".config", "bmexp", "bmexp.log"))
	if err != nil {
		return zerolog.Nop()
	}
	return logger
}

// levelFromEnv reads BMEXP_LOG_LEVEL (trace, debug, info, warn, error);
// default is info.
func levelFromEnv() zerolog.Level {
	switch os.Getenv("BMEXP_LOG_LEVEL") {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
