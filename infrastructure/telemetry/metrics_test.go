package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupTestMetrics installs a manual-reader meter provider and returns it
// along with a metrics provider bound to it.
func setupTestMetrics(t *testing.T) (*metric.ManualReader, *MetricsProvider) {
	t.Helper()

	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(provider)

	mp := NewMetricsProvider(DefaultMetricsConfig())
	if mp.Error() != nil {
		t.Fatalf("failed to create metrics provider: %v", mp.Error())
	}

	return reader, mp
}

// sumOf collects metrics and returns the total of all data points for a
// Sum[int64] metric with the given name.
func sumOf(t *testing.T, reader *metric.ManualReader, name string) (int64, bool) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s: expected Sum[int64], got %T", name, m.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total, true
		}
	}
	return 0, false
}

func TestNewMetricsProvider(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	if mp == nil {
		t.Fatal("NewMetricsProvider returned nil")
	}
	if mp.Error() != nil {
		t.Errorf("unexpected error: %v", mp.Error())
	}
}

func TestMetricsProvider_RecordCycle(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()
	mp.RecordCycle(ctx, "agent-1", true, 40*time.Millisecond)
	mp.RecordCycle(ctx, "agent-1", false, 5*time.Millisecond)

	total, found := sumOf(t, reader, "autopilot.cycles")
	if !found {
		t.Fatal("autopilot.cycles metric not found")
	}
	if total != 2 {
		t.Errorf("cycle count = %d, want 2", total)
	}
}

func TestMetricsProvider_RecordToolExecution(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()
	mp.RecordToolExecution(ctx, "calc", true, 100*time.Millisecond)
	mp.RecordToolExecution(ctx, "calc", false, 50*time.Millisecond)

	executions, found := sumOf(t, reader, "autopilot.tool.executions")
	if !found {
		t.Fatal("autopilot.tool.executions metric not found")
	}
	if executions != 2 {
		t.Errorf("execution count = %d, want 2", executions)
	}
}

func TestMetricsProvider_FailureCountsAsError(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	mp.RecordToolExecution(context.Background(), "calc", false, time.Millisecond)

	errs, found := sumOf(t, reader, "autopilot.errors")
	if !found {
		t.Fatal("autopilot.errors metric not found")
	}
	if errs != 1 {
		t.Errorf("error count = %d, want 1", errs)
	}
}

func TestMetricsProvider_RecordGuardrailViolation(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	mp.RecordGuardrailViolation(context.Background(), "agent-1", "memory limit exceeded")

	violations, found := sumOf(t, reader, "autopilot.guardrail.violations")
	if !found {
		t.Fatal("autopilot.guardrail.violations metric not found")
	}
	if violations != 1 {
		t.Errorf("violation count = %d, want 1", violations)
	}
}

func TestMetricsProvider_ActiveAgents(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()
	mp.IncrementActiveAgents(ctx)
	mp.IncrementActiveAgents(ctx)
	mp.DecrementActiveAgents(ctx)

	active, found := sumOf(t, reader, "autopilot.agents.active")
	if !found {
		t.Fatal("autopilot.agents.active metric not found")
	}
	if active != 1 {
		t.Errorf("active agents = %d, want 1", active)
	}
}

func TestNoopMetricsProvider(t *testing.T) {
	var mp Metrics = &NoopMetricsProvider{}

	// No-op calls must not panic.
	ctx := context.Background()
	mp.RecordCycle(ctx, "agent-1", true, time.Millisecond)
	mp.RecordToolExecution(ctx, "calc", false, time.Millisecond)
	mp.RecordStateTransition(ctx, "agent-1", "idle", "thinking")
	mp.RecordGuardrailViolation(ctx, "agent-1", "limit")
	mp.RecordGoalCompleted(ctx, "agent-1")
	mp.RecordError(ctx, "cycle", nil)
	mp.RecordPlanningDuration(ctx, "agent-1", time.Millisecond)
	mp.IncrementActiveAgents(ctx)
	mp.DecrementActiveAgents(ctx)
	mp.RecordCircuitBreakerStateChange(ctx, "calc", true)
}
