package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitLogWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitLogWithWriter("info", &buf)
	t.Cleanup(func() { InitLogWithWriter("warn", &bytes.Buffer{}) })

	Debug("hidden detail")
	Info("compose finished", "env", "staging")

	out := buf.String()
	if strings.Contains(out, "hidden detail") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "compose finished") || !strings.Contains(out, "env=staging") {
		t.Errorf("info message missing from output: %q", out)
	}
}
