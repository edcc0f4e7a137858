// Package logging builds the slog logger used for diagnostics on stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevelEnvVar overrides the configured log level.
const LogLevelEnvVar = "SESSION_SHARER_LOG_LEVEL"

// New returns a text logger writing to w. The level comes from
// SESSION_SHARER_LOG_LEVEL, then configLevel, and is WARN when neither is
// set or the value is not recognised.
func New(w io.Writer, configLevel string) *slog.Logger {
	levelStr := os.Getenv(LogLevelEnvVar)
	if levelStr == "" {
		levelStr = configLevel
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(levelStr)})
	return slog.New(handler)
}

// Discard returns a logger that drops every entry.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel parses a log level string to slog.Level.
// Returns slog.LevelWarn for empty or invalid values.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
