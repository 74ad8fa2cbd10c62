package instrument

import (
	"context"
	"log/slog"
	"slices"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestNew_Disabled(t *testing.T) {
	// Arrange
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	// Act
	ins, err := New(context.Background(), &Config{ServiceName: "goblog", LogLevel: "debug"})

	// Assert
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("default logger must honor the configured level")
	}
	if fields := otel.GetTextMapPropagator().Fields(); !slices.Contains(fields, "traceparent") {
		t.Fatalf("propagator fields = %v, want traceparent", fields)
	}
	_, span := ins.Tracer("test").Start(context.Background(), "op")
	if span.SpanContext().IsValid() {
		t.Fatal("disabled instrumentation must not record spans")
	}
	span.End()
	if err := ins.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
