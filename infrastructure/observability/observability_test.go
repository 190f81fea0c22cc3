package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/felixgeelhaar/autopilot/domain/telemetry"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "autopilot" {
		t.Errorf("ServiceName = %s", cfg.ServiceName)
	}
	if cfg.Tracing.Enabled {
		t.Error("tracing should be disabled by default")
	}
	if cfg.Tracing.Exporter != ExporterNoop {
		t.Errorf("Exporter = %s, want noop", cfg.Tracing.Exporter)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("SampleRate = %v, want 1.0", cfg.Tracing.SampleRate)
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := []Option{
		WithServiceName("my-agent"),
		WithServiceVersion("2.0.0"),
		WithEnvironment("staging"),
		WithStdoutTracing(),
		WithSampleRate(0.25),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.ServiceName != "my-agent" || cfg.ServiceVersion != "2.0.0" || cfg.Environment != "staging" {
		t.Errorf("identity = %+v", cfg)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Exporter != ExporterStdout {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if cfg.Tracing.SampleRate != 0.25 {
		t.Errorf("SampleRate = %v", cfg.Tracing.SampleRate)
	}
}

func TestNewNoopProvider(t *testing.T) {
	p := NewNoopProvider()

	ctx, span := p.Tracer().StartSpan(context.Background(), "test")
	if ctx == nil || span == nil {
		t.Fatal("noop tracer returned nil")
	}

	// No-op span methods must not panic.
	span.SetAttributes(telemetry.String("k", "v"))
	span.RecordError(errors.New("boom"))
	span.SetStatus(telemetry.StatusCodeError, "failed")
	span.AddEvent("evt")
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_DisabledTracingUsesNoop(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := p.Tracer().(*NoopTracer); !ok {
		t.Errorf("Tracer() = %T, want *NoopTracer", p.Tracer())
	}
}

func TestOTelTracer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	tracer := NewOTelTracer("test-tracer")

	ctx, span := tracer.StartSpan(context.Background(), "cycle",
		telemetry.WithAttributes(telemetry.String("agent.id", "agent-1"), telemetry.Int("cycle", 3)),
	)
	span.AddEvent("planning", telemetry.Bool("adapted", false))
	span.SetStatus(telemetry.StatusCodeOK, "")
	span.End()

	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Name() != "cycle" {
		t.Errorf("span name = %s", got.Name())
	}
	if len(got.Attributes()) != 2 {
		t.Errorf("span attributes = %v, want 2", got.Attributes())
	}
	if len(got.Events()) != 1 || got.Events()[0].Name != "planning" {
		t.Errorf("span events = %v", got.Events())
	}
}

func TestSpanFromContext(t *testing.T) {
	// Without a recording span in context the noop span is returned.
	span := SpanFromContext(context.Background())
	if _, ok := span.(*noopSpan); !ok {
		t.Errorf("SpanFromContext() = %T, want *noopSpan", span)
	}
}
