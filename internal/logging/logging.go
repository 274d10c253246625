// Package logging builds the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a slog.Logger writing text to stderr at the given
// verbosity. User-facing command output goes to stdout via fmt; the
// logger carries diagnostics (skipped lines, swallowed write faults).
func NewLogger(level string) *slog.Logger {
	handlerLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		handlerLevel = slog.LevelDebug
	case "warn":
		handlerLevel = slog.LevelWarn
	case "error":
		handlerLevel = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: handlerLevel})
	return slog.New(handler)
}
