package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestComponentPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var fromCtx, fromBase bytes.Buffer
	ctxLogger := NewJSON(&fromCtx, slog.LevelInfo)
	base := NewJSON(&fromBase, slog.LevelInfo)

	ctx := ContextWithLogger(context.Background(), ctxLogger)
	Component(ctx, base, "agenda", "reload", "artist_id", "A1").Info("done")

	if fromBase.Len() != 0 {
		t.Fatalf("expected base logger to stay silent")
	}
	var record map[string]any
	if err := json.Unmarshal(fromCtx.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["component"] != "agenda" || record["operation"] != "reload" || record["artist_id"] != "A1" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestComponentFallsBackToBase(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Component(context.Background(), NewJSON(&buf, slog.LevelInfo), "api", "").Info("x")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if _, ok := record["operation"]; ok {
		t.Fatalf("expected no operation attribute, got %v", record)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFromContextNil(t *testing.T) {
	t.Parallel()

	if FromContext(context.Background()) != nil {
		t.Fatalf("expected nil logger")
	}
	ctx := ContextWithLogger(context.Background(), nil)
	if FromContext(ctx) != nil {
		t.Fatalf("expected nil logger to be ignored")
	}
}
