package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/autopilot/application"
	"github.com/felixgeelhaar/autopilot/domain/agent"
	domainconfig "github.com/felixgeelhaar/autopilot/domain/config"
	"github.com/felixgeelhaar/autopilot/domain/event"
	"github.com/felixgeelhaar/autopilot/domain/memory"
	infraconfig "github.com/felixgeelhaar/autopilot/infrastructure/config"
	infraevent "github.com/felixgeelhaar/autopilot/infrastructure/event"
	"github.com/felixgeelhaar/autopilot/infrastructure/logging"
	"github.com/felixgeelhaar/autopilot/infrastructure/observability"
	"github.com/felixgeelhaar/autopilot/infrastructure/resilience"
	badgerstore "github.com/felixgeelhaar/autopilot/infrastructure/storage/badger"
	memstore "github.com/felixgeelhaar/autopilot/infrastructure/storage/memory"
	redisstore "github.com/felixgeelhaar/autopilot/infrastructure/storage/redis"
	"github.com/felixgeelhaar/autopilot/infrastructure/telemetry"
)

// Runtime is a fully assembled agent plus the infrastructure it owns: storage
// backends, the event bus, and the tracing provider. Close releases them in
// reverse assembly order.
type Runtime struct {
	Agent   *Agent
	Bus     *infraevent.Bus
	Journal event.Store

	observability *observability.Provider
	closers       []func() error
}

// RuntimeFromFile loads and validates a configuration file, then assembles a
// runtime from it.
func RuntimeFromFile(path string) (*Runtime, error) {
	cfg, err := infraconfig.NewLoader().LoadFile(path)
	if err != nil {
		return nil, err
	}
	return RuntimeFromConfig(cfg)
}

// RuntimeFromConfig assembles a runtime from a validated configuration:
// logging, storage backends, event bus, tracing, telemetry, and the agent
// itself.
func RuntimeFromConfig(cfg *domainconfig.AgentConfig) (*Runtime, error) {
	built, err := infraconfig.NewBuilder(cfg).Build()
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:  built.Logging.Level,
		Format: built.Logging.Format,
	})

	rt := &Runtime{}

	memoryStore, err := rt.buildMemoryStore(built)
	if err != nil {
		return nil, errors.Join(err, rt.Close(context.Background()))
	}

	journal, err := rt.buildEventStore(built)
	if err != nil {
		return nil, errors.Join(err, rt.Close(context.Background()))
	}
	rt.Journal = journal

	bus := infraevent.NewBus(infraevent.WithStore(journal))
	rt.Bus = bus
	rt.closers = append(rt.closers, bus.Close)

	metrics, err := rt.buildTelemetry(built)
	if err != nil {
		return nil, errors.Join(err, rt.Close(context.Background()))
	}

	ag, err := New(
		WithID(built.AgentID),
		WithName(built.AgentName),
		WithCycleInterval(built.CycleInterval),
		WithMaxCycles(uint64(built.MaxCycles)),
		WithGuardrails(built.Guardrails),
		WithCapabilities(built.Capabilities),
		WithExecutor(resilience.NewExecutor(built.Executor)),
		WithMemoryStore(memoryStore),
		WithPublisher(bus),
		WithMetrics(metrics),
	)
	if err != nil {
		return nil, errors.Join(err, rt.Close(context.Background()))
	}
	rt.Agent = ag

	if built.DefaultGoal != "" {
		ag.AddGoal(NewGoal("", built.DefaultGoal, agent.GoalComplex, 1))
	}
	return rt, nil
}

// Run starts the agent and blocks until the context is cancelled or the loop
// drains its budgets, then stops the agent.
func (rt *Runtime) Run(ctx context.Context) {
	stopped, cancelSub := rt.Bus.Subscribe(event.TypeAgentStopped)
	defer cancelSub()

	rt.Agent.Start(ctx)
	select {
	case <-ctx.Done():
	case <-stopped:
	}
	rt.Agent.Stop()
}

// Replay reconstructs the agent's run history from the journal.
func (rt *Runtime) Replay(ctx context.Context) (*application.History, error) {
	return application.Replay(ctx, rt.Journal, rt.Agent.ID())
}

// Close releases owned infrastructure in reverse assembly order. Safe to call
// after a partial assembly failure.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil

	if rt.observability != nil {
		if err := rt.observability.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		rt.observability = nil
	}
	return errors.Join(errs...)
}

func (rt *Runtime) buildMemoryStore(built *infraconfig.BuildResult) (memory.Store, error) {
	if built.Redis == nil {
		store := memstore.NewMemoryStore()
		rt.closers = append(rt.closers, store.Close)
		return store, nil
	}

	store, err := redisstore.NewMemoryStore(*built.Redis)
	if err != nil {
		return nil, fmt.Errorf("connecting redis memory store: %w", err)
	}
	rt.closers = append(rt.closers, store.Close)
	return store, nil
}

func (rt *Runtime) buildEventStore(built *infraconfig.BuildResult) (event.Store, error) {
	if built.Badger == nil {
		store := memstore.NewEventStore()
		rt.closers = append(rt.closers, store.Close)
		return store, nil
	}

	store, err := badgerstore.NewEventStore(*built.Badger)
	if err != nil {
		return nil, fmt.Errorf("opening badger event store: %w", err)
	}
	rt.closers = append(rt.closers, store.Close)
	return store, nil
}

func (rt *Runtime) buildTelemetry(built *infraconfig.BuildResult) (telemetry.Metrics, error) {
	if !built.TelemetryEnabled {
		return &telemetry.NoopMetricsProvider{}, nil
	}

	opts := []observability.Option{observability.WithServiceName(built.ServiceName)}
	if built.TraceExporter == "stdout" {
		opts = append(opts, observability.WithStdoutTracing())
	}
	provider, err := observability.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("setting up tracing: %w", err)
	}
	rt.observability = provider

	mp := telemetry.NewMetricsProvider(telemetry.DefaultMetricsConfig())
	if err := mp.Error(); err != nil {
		return nil, fmt.Errorf("setting up metrics: %w", err)
	}
	return mp, nil
}
