package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestQueryLogger_Log(t *testing.T) {
	buf := captureDefault(t)

	NewQueryLogger("mongo", "save", "players").Log(nil, 1, slog.String("player_id", "42"))
	out := buf.String()
	for _, want := range []string{"level=DEBUG", "store=mongo", "operation=save", "target=players", "affected=1", "player_id=42"} {
		if !strings.Contains(out, want) {
			t.Errorf("success log %q missing %q", out, want)
		}
	}

	buf.Reset()
	NewQueryLogger("postgres", "exec", "CREATE INDEX").Log(errors.New("boom"), 0)
	out = buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "error=boom") {
		t.Errorf("failure log = %q", out)
	}
}
