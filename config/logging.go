package config

import (
	"log/slog"
	"strings"
)

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info"`
	// Format is json or text. Unset means text in dev mode and json otherwise.
	Format string `env:"FORMAT"`
}

// Sanitize normalises level and format, falling back to info/json.
func (c *LoggingConfig) Sanitize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Level = "info"
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format != "text" {
		c.Format = "json"
	}
}

// SlogLevel returns the slog level for Level.
func (c LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
