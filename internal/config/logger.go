package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func (c *Config) NewLogger() *slog.Logger {
	return c.newLogger(os.Stdout)
}

func (c *Config) newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
