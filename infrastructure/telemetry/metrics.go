// Package telemetry provides OpenTelemetry metrics for the autopilot runtime.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	cycles              metric.Int64Counter
	toolExecutions      metric.Int64Counter
	stateTransitions    metric.Int64Counter
	guardrailViolations metric.Int64Counter
	goalsCompleted      metric.Int64Counter
	errors              metric.Int64Counter

	// Histograms
	cycleDuration    metric.Float64Histogram
	planningDuration metric.Float64Histogram
	toolDuration     metric.Float64Histogram

	// Gauges (using UpDownCounter for OpenTelemetry)
	activeAgents       metric.Int64UpDownCounter
	circuitBreakerOpen metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter.
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/autopilot",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider bound to the global
// meter provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	provider := otel.GetMeterProvider()
	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{
		meter: meter,
	}

	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.cycles, err = mp.meter.Int64Counter(
		"autopilot.cycles",
		metric.WithDescription("Number of autonomy cycles executed"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return err
	}

	mp.toolExecutions, err = mp.meter.Int64Counter(
		"autopilot.tool.executions",
		metric.WithDescription("Number of tool executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return err
	}

	mp.stateTransitions, err = mp.meter.Int64Counter(
		"autopilot.state.transitions",
		metric.WithDescription("Number of lifecycle state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	mp.guardrailViolations, err = mp.meter.Int64Counter(
		"autopilot.guardrail.violations",
		metric.WithDescription("Number of guardrail violations detected"),
		metric.WithUnit("{violation}"),
	)
	if err != nil {
		return err
	}

	mp.goalsCompleted, err = mp.meter.Int64Counter(
		"autopilot.goals.completed",
		metric.WithDescription("Number of goals completed"),
		metric.WithUnit("{goal}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"autopilot.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.cycleDuration, err = mp.meter.Float64Histogram(
		"autopilot.cycle.duration",
		metric.WithDescription("Duration of autonomy cycles"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.planningDuration, err = mp.meter.Float64Histogram(
		"autopilot.planning.duration",
		metric.WithDescription("Duration of planning operations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.toolDuration, err = mp.meter.Float64Histogram(
		"autopilot.tool.duration",
		metric.WithDescription("Duration of tool executions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.activeAgents, err = mp.meter.Int64UpDownCounter(
		"autopilot.agents.active",
		metric.WithDescription("Number of running agents"),
		metric.WithUnit("{agent}"),
	)
	if err != nil {
		return err
	}

	mp.circuitBreakerOpen, err = mp.meter.Int64UpDownCounter(
		"autopilot.circuitbreaker.open",
		metric.WithDescription("Number of open circuit breakers"),
		metric.WithUnit("{circuit}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordCycle records one autonomy cycle.
func (mp *MetricsProvider) RecordCycle(ctx context.Context, agentID string, executed bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("agent.id", agentID),
		attribute.Bool("executed", executed),
	}

	mp.cycles.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.cycleDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordToolExecution records a tool execution.
func (mp *MetricsProvider) RecordToolExecution(ctx context.Context, toolName string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("tool.name", toolName),
		attribute.Bool("success", success),
	}

	mp.toolExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.toolDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if !success {
		mp.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", "tool_execution"),
			attribute.String("tool.name", toolName),
		))
	}
}

// RecordStateTransition records a lifecycle state transition.
func (mp *MetricsProvider) RecordStateTransition(ctx context.Context, agentID, fromStatus, toStatus string) {
	attrs := []attribute.KeyValue{
		attribute.String("agent.id", agentID),
		attribute.String("status.from", fromStatus),
		attribute.String("status.to", toStatus),
	}

	mp.stateTransitions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordGuardrailViolation records a detected guardrail violation.
func (mp *MetricsProvider) RecordGuardrailViolation(ctx context.Context, agentID, violation string) {
	attrs := []attribute.KeyValue{
		attribute.String("agent.id", agentID),
		attribute.String("violation", violation),
	}

	mp.guardrailViolations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordGoalCompleted records a completed goal.
func (mp *MetricsProvider) RecordGoalCompleted(ctx context.Context, agentID string) {
	mp.goalsCompleted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("agent.id", agentID),
	))
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
	attrs := []attribute.KeyValue{
		attribute.String("error.type", errorType),
	}
	for k, v := range details {
		attrs = append(attrs, attribute.String(k, v))
	}

	mp.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPlanningDuration records the duration of a planning operation.
func (mp *MetricsProvider) RecordPlanningDuration(ctx context.Context, agentID string, duration time.Duration) {
	mp.planningDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String("agent.id", agentID),
	))
}

// IncrementActiveAgents increments the running agent gauge.
func (mp *MetricsProvider) IncrementActiveAgents(ctx context.Context) {
	mp.activeAgents.Add(ctx, 1)
}

// DecrementActiveAgents decrements the running agent gauge.
func (mp *MetricsProvider) DecrementActiveAgents(ctx context.Context) {
	mp.activeAgents.Add(ctx, -1)
}

// RecordCircuitBreakerStateChange records a circuit breaker state change.
func (mp *MetricsProvider) RecordCircuitBreakerStateChange(ctx context.Context, toolName string, isOpen bool) {
	attrs := []attribute.KeyValue{
		attribute.String("tool.name", toolName),
	}

	if isOpen {
		mp.circuitBreakerOpen.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		mp.circuitBreakerOpen.Add(ctx, -1, metric.WithAttributes(attrs...))
	}
}

// NoopMetricsProvider is a no-op metrics provider for testing or when
// metrics are disabled.
type NoopMetricsProvider struct{}

// RecordCycle is a no-op.
func (n *NoopMetricsProvider) RecordCycle(ctx context.Context, agentID string, executed bool, duration time.Duration) {
}

// RecordToolExecution is a no-op.
func (n *NoopMetricsProvider) RecordToolExecution(ctx context.Context, toolName string, success bool, duration time.Duration) {
}

// RecordStateTransition is a no-op.
func (n *NoopMetricsProvider) RecordStateTransition(ctx context.Context, agentID, fromStatus, toStatus string) {
}

// RecordGuardrailViolation is a no-op.
func (n *NoopMetricsProvider) RecordGuardrailViolation(ctx context.Context, agentID, violation string) {
}

// RecordGoalCompleted is a no-op.
func (n *NoopMetricsProvider) RecordGoalCompleted(ctx context.Context, agentID string) {}

// RecordError is a no-op.
func (n *NoopMetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
}

// RecordPlanningDuration is a no-op.
func (n *NoopMetricsProvider) RecordPlanningDuration(ctx context.Context, agentID string, duration time.Duration) {
}

// IncrementActiveAgents is a no-op.
func (n *NoopMetricsProvider) IncrementActiveAgents(ctx context.Context) {}

// DecrementActiveAgents is a no-op.
func (n *NoopMetricsProvider) DecrementActiveAgents(ctx context.Context) {}

// RecordCircuitBreakerStateChange is a no-op.
func (n *NoopMetricsProvider) RecordCircuitBreakerStateChange(ctx context.Context, toolName string, isOpen bool) {
}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordCycle(ctx context.Context, agentID string, executed bool, duration time.Duration)
	RecordToolExecution(ctx context.Context, toolName string, success bool, duration time.Duration)
	RecordStateTransition(ctx context.Context, agentID, fromStatus, toStatus string)
	RecordGuardrailViolation(ctx context.Context, agentID, violation string)
	RecordGoalCompleted(ctx context.Context, agentID string)
	RecordError(ctx context.Context, errorType string, details map[string]string)
	RecordPlanningDuration(ctx context.Context, agentID string, duration time.Duration)
	IncrementActiveAgents(ctx context.Context)
	DecrementActiveAgents(ctx context.Context)
	RecordCircuitBreakerStateChange(ctx context.Context, toolName string, isOpen bool)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)
