package config

import (
	"io"
	"log/slog"
)

// NewLogger returns a slog.Logger for cfg. Production writes JSON lines for
// log aggregators; other environments write human-readable text.
// An unknown LOG_LEVEL falls back to info.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Environment == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
