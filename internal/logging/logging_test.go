package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"loud", slog.LevelWarn},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewDefaultsToWarn(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	var buf bytes.Buffer
	logger := New(&buf, "")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestNewEnvOverridesConfig(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "debug")
	var buf bytes.Buffer
	New(&buf, "error").Debug("resolved", "dir", "/tmp/x")

	if !strings.Contains(buf.String(), "dir=/tmp/x") {
		t.Errorf("debug entry missing: %q", buf.String())
	}
}

func TestNewUsesConfigLevel(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	var buf bytes.Buffer
	New(&buf, "error").Warn("quiet")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled at ERROR")
	}
}
