package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestInitLevels(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(original)
	})

	cases := []struct {
		name      string
		verbose   bool
		level     slog.Level
		wantAllow bool
	}{
		{name: "quiet_blocks_info", verbose: false, level: slog.LevelInfo, wantAllow: false},
		{name: "quiet_allows_warn", verbose: false, level: slog.LevelWarn, wantAllow: true},
		{name: "verbose_allows_debug", verbose: true, level: slog.LevelDebug, wantAllow: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			Init(tc.verbose)
			got := slog.Default().Enabled(context.Background(), tc.level)
			if got != tc.wantAllow {
				t.Fatalf("Enabled(%v) = %v, want %v", tc.level, got, tc.wantAllow)
			}
		})
	}
}

func TestInitWriterEmitsStructuredAttributes(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(original)
	})

	var buf bytes.Buffer
	InitWriter(&buf, true)
	slog.Debug("duplicate expected key", slog.String("key", "api-7f9c"))

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") {
		t.Fatalf("expected debug record, got %q", out)
	}
	if !strings.Contains(out, "key=api-7f9c") {
		t.Fatalf("expected key attribute, got %q", out)
	}
}
