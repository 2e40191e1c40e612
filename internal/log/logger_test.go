package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentStorage)

	logger.Info("saved", FieldPath, "/tmp/f.json")

	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "path=/tmp/f.json") {
		t.Fatalf("unexpected output: %q", out)
	}
	if logger.Component() != ComponentStorage {
		t.Fatalf("unexpected component %q", logger.Component())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentApp).WithComponent(ComponentAMQP)

	logger.Warn("publish failed")

	if !strings.Contains(buf.String(), "component=amqp") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	if logger.Component() != ComponentAMQP {
		t.Fatalf("unexpected component %q", logger.Component())
	}
}

func TestNewDefaultsToCharmHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})

	logger.Info("hidden")
	logger.Error("shown", FieldProduct, "Bread")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "Bread") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentCLI)

	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatalf("expected stored logger")
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}

func TestLogFields(t *testing.T) {
	fields := NewFields().
		WithComponent(ComponentService).
		WithOperation(OpAppend).
		WithLogEntry("Bread", 10, "2021-01").
		WithError(errors.New("boom"))

	if fields[FieldProduct] != "Bread" || fields[FieldYearMonth] != "2021-01" || fields[FieldError] != "boom" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if len(fields.ToSlice()) != 2*len(fields) {
		t.Fatalf("unexpected slice length")
	}
	if _, ok := NewFields().WithError(nil)[FieldError]; ok {
		t.Fatalf("nil error should not be recorded")
	}
}
