package app

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the app's isolated slog.Logger; the global default logger
// is never touched. Level names are parsed case-insensitively via
// slog.Level.UnmarshalText, and anything unrecognized falls back to info.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(formatStr, "json") {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
