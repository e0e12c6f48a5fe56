package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var row map[string]any
		if err := sonic.UnmarshalString(line, &row); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, row)
	}
	return out
}

func TestLogger_WritesKeyValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).With("component", "scoring")

	logger.Debug("hidden")
	logger.Warn("provider unavailable", "gameweek", 3, "error", errors.New("timeout"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one line above debug level, got %d", len(lines))
	}
	row := lines[0]
	if row["msg"] != "provider unavailable" || row["level"] != "WARN" {
		t.Fatalf("unexpected log line: %v", row)
	}
	if row["component"] != "scoring" || row["gameweek"] != float64(3) || row["error"] != "timeout" {
		t.Fatalf("unexpected fields: %v", row)
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	t.Parallel()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	var buf bytes.Buffer
	NewJSONWriter(&buf, LevelDebug).InfoContext(ctx, "scored")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0]["trace_id"] != traceID.String() || lines[0]["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %v", lines[0])
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, " error ": LevelError}
	for raw, want := range tests {
		got, err := ParseLevel(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want %v", raw, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
