package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Warn(context.Background(), "legacy credential method in use",
		Field{Key: "method", Value: "env"},
	)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e["level"] != "warn" || e["msg"] != "legacy credential method in use" || e["method"] != "env" {
		t.Errorf("unexpected entry: %v", e)
	}
	if _, ok := e["timestamp"].(string); !ok {
		t.Errorf("expected timestamp, got %v", e["timestamp"])
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	ctx := context.Background()
	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at warn level, got %d: %s", len(entries), buf.String())
	}
}

func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	logger.With(Field{Key: "Password", Value: "hunter2"}).Info(context.Background(), "msg",
		Field{Key: "config_key", Value: "AGE-SECRET-KEY-1XYZ"},
		Field{Key: "method", Value: "config"},
	)

	out := buf.String()
	if strings.Contains(out, "hunter2") || strings.Contains(out, "AGE-SECRET-KEY") {
		t.Fatalf("secret leaked into log output: %s", out)
	}
	e := decodeLines(t, &buf)[0]
	if e["config_key"] != "[REDACTED]" || e["Password"] != "[REDACTED]" {
		t.Errorf("expected redacted fields, got %v", e)
	}
	if e["method"] != "config" {
		t.Errorf("expected method field, got %v", e["method"])
	}
}

func TestLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLoggerWithWriter("info", &buf)
	child := parent.With(Field{Key: "component", Value: "credential"})

	parent.Info(context.Background(), "parent")
	child.Info(context.Background(), "child")

	entries := decodeLines(t, &buf)
	if _, ok := entries[0]["component"]; ok {
		t.Errorf("parent logger picked up child field: %v", entries[0])
	}
	if entries[1]["component"] != "credential" {
		t.Errorf("child logger missing field: %v", entries[1])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug": LevelDebug,
		"INFO":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"bogus": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
