package config

import (
	"fmt"
	"time"

	domainconfig "github.com/felixgeelhaar/autopilot/domain/config"
	"github.com/felixgeelhaar/autopilot/domain/policy"
	"github.com/felixgeelhaar/autopilot/infrastructure/logging"
	"github.com/felixgeelhaar/autopilot/infrastructure/resilience"
	badgerstore "github.com/felixgeelhaar/autopilot/infrastructure/storage/badger"
	redisstore "github.com/felixgeelhaar/autopilot/infrastructure/storage/redis"
)

// Builder translates a validated configuration into runtime components.
type Builder struct {
	config *domainconfig.AgentConfig
}

// NewBuilder creates a new configuration builder.
func NewBuilder(config *domainconfig.AgentConfig) *Builder {
	return &Builder{config: config}
}

// BuildResult contains the built components from configuration.
type BuildResult struct {
	// AgentID is the configured agent identifier (may be empty).
	AgentID string
	// AgentName is the human-readable agent name.
	AgentName string
	// CycleInterval is the pause between autonomy cycles.
	CycleInterval time.Duration
	// MaxCycles stops the loop after this many cycles (0 = unlimited).
	MaxCycles int
	// DefaultGoal is queued at startup if no goals are set.
	DefaultGoal string

	// Guardrails are the runtime limits.
	Guardrails policy.Guardrails
	// Capabilities are the capability toggles.
	Capabilities policy.Capabilities
	// Executor is the tool execution resilience configuration.
	Executor resilience.ExecutorConfig
	// Logging is the logger configuration.
	Logging logging.Config

	// Redis is set when the memory backend is redis.
	Redis *redisstore.Config
	// Badger is set when the event backend is badger.
	Badger *badgerstore.Config

	// TelemetryEnabled turns OpenTelemetry instrumentation on.
	TelemetryEnabled bool
	// ServiceName identifies the agent in exported telemetry.
	ServiceName string
	// TraceExporter selects the span exporter (stdout or none).
	TraceExporter string
}

// Build builds runtime components from the configuration.
func (b *Builder) Build() (*BuildResult, error) {
	cfg := b.config
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", domainconfig.ErrBuildFailed)
	}
	if errs := domainconfig.NewValidator().Validate(cfg); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %v", domainconfig.ErrBuildFailed, errs)
	}

	result := &BuildResult{
		AgentID:       cfg.Agent.ID,
		AgentName:     cfg.Name,
		CycleInterval: cfg.Agent.CycleInterval.Duration(),
		MaxCycles:     cfg.Agent.MaxCycles,
		DefaultGoal:   cfg.Agent.DefaultGoal,

		Guardrails:   b.buildGuardrails(),
		Capabilities: b.buildCapabilities(),
		Executor:     b.buildExecutor(),
		Logging:      b.buildLogging(),

		TelemetryEnabled: cfg.Telemetry.Enabled,
		ServiceName:      cfg.Telemetry.ServiceName,
		TraceExporter:    cfg.Telemetry.TraceExporter,
	}

	if err := b.buildStorage(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (b *Builder) buildGuardrails() policy.Guardrails {
	g := b.config.Guardrails
	return policy.Guardrails{
		MaxMemoryMB:             g.MaxMemoryMB,
		MaxConcurrentOperations: g.MaxConcurrentOperations,
		MaxExecutionTime:        g.MaxExecutionTime.Duration(),
		AllowedTools:            g.AllowedTools,
		MaxPlanSteps:            g.MaxPlanSteps,
		MaxPlanDuration:         g.MaxPlanDuration.Duration(),
	}
}

func (b *Builder) buildCapabilities() policy.Capabilities {
	c := b.config.Capabilities
	return policy.Capabilities{
		PrioritizeTasks:       c.PrioritizeTasks,
		ParallelPlans:         c.ParallelPlans,
		AdaptPlans:            c.AdaptPlans,
		InitiateConversations: c.InitiateConversations,
	}
}

func (b *Builder) buildExecutor() resilience.ExecutorConfig {
	r := b.config.Resilience
	return resilience.ExecutorConfig{
		MaxConcurrent:           r.MaxConcurrent,
		CircuitBreakerThreshold: r.CircuitBreakerThreshold,
		CircuitBreakerTimeout:   r.CircuitBreakerTimeout.Duration(),
		RetryMaxAttempts:        r.RetryMaxAttempts,
		RetryInitialDelay:       r.RetryInitialDelay.Duration(),
		RetryBackoffMultiplier:  r.RetryBackoffMultiplier,
		DefaultTimeout:          r.Timeout.Duration(),
	}
}

func (b *Builder) buildLogging() logging.Config {
	cfg := logging.DefaultConfig()
	if b.config.Logging.Level != "" {
		cfg.Level = b.config.Logging.Level
	}
	if b.config.Logging.Format != "" {
		cfg.Format = b.config.Logging.Format
	}
	return cfg
}

func (b *Builder) buildStorage(result *BuildResult) error {
	s := b.config.Storage

	switch s.Memory.Backend {
	case "", "inmem":
	case "redis":
		rc := redisstore.DefaultConfig()
		rc.Address = s.Memory.Redis.Address
		if s.Memory.Redis.Password != "" {
			rc.Password = s.Memory.Redis.Password
		}
		if s.Memory.Redis.DB != 0 {
			rc.DB = s.Memory.Redis.DB
		}
		if s.Memory.Redis.KeyPrefix != "" {
			rc.KeyPrefix = s.Memory.Redis.KeyPrefix
		}
		if s.Memory.Redis.PoolSize > 0 {
			rc.PoolSize = s.Memory.Redis.PoolSize
		}
		result.Redis = &rc
	default:
		return fmt.Errorf("%w: unknown memory backend %q", domainconfig.ErrBuildFailed, s.Memory.Backend)
	}

	switch s.Events.Backend {
	case "", "inmem":
	case "badger":
		bc := badgerstore.DefaultConfig()
		bc.Dir = s.Events.Badger.Dir
		bc.InMemory = s.Events.Badger.InMemory
		bc.SyncWrites = s.Events.Badger.SyncWrites
		bc.KeyPrefix = s.Events.Badger.KeyPrefix
		result.Badger = &bc
	default:
		return fmt.Errorf("%w: unknown event backend %q", domainconfig.ErrBuildFailed, s.Events.Backend)
	}

	return nil
}
