package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/crucial707/secure-notes/internal/config"
)

// newLogger builds the process logger from LOG_FORMAT and LOG_LEVEL.
// An unknown level falls back to info.
func newLogger(cfg config.Config, out io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}
