// Package config provides domain models for agent configuration.
package config

import "time"

// AgentConfig represents the complete agent configuration.
type AgentConfig struct {
	// Name is a human-readable name for this configuration.
	Name string `json:"name" yaml:"name"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version"`
	// Description describes the agent's purpose.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Agent contains core control-loop settings.
	Agent AgentSettings `json:"agent" yaml:"agent"`
	// Guardrails contains runtime limit settings.
	Guardrails GuardrailsConfig `json:"guardrails,omitempty" yaml:"guardrails,omitempty"`
	// Capabilities contains capability toggles.
	Capabilities CapabilitiesConfig `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	// Resilience contains tool execution resilience settings.
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
	// Logging contains logging settings.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Telemetry contains telemetry settings.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
	// Storage contains storage backend settings.
	Storage StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
}

// AgentSettings contains core control-loop behavior settings.
type AgentSettings struct {
	// ID is the agent identifier. A random one is assigned if empty.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
	// CycleInterval is the pause between autonomy cycles.
	CycleInterval Duration `json:"cycle_interval,omitempty" yaml:"cycle_interval,omitempty"`
	// MaxCycles stops the loop after this many cycles (0 = unlimited).
	MaxCycles int `json:"max_cycles,omitempty" yaml:"max_cycles,omitempty"`
	// DefaultGoal is queued at startup if no goals are set.
	DefaultGoal string `json:"default_goal,omitempty" yaml:"default_goal,omitempty"`
}

// GuardrailsConfig contains runtime limit settings.
type GuardrailsConfig struct {
	// MaxMemoryMB is the process heap ceiling in megabytes.
	MaxMemoryMB float64 `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty"`
	// MaxConcurrentOperations caps simultaneously in-progress goals.
	MaxConcurrentOperations int `json:"max_concurrent_operations,omitempty" yaml:"max_concurrent_operations,omitempty"`
	// MaxExecutionTime is the total time budget for the cycle loop.
	MaxExecutionTime Duration `json:"max_execution_time,omitempty" yaml:"max_execution_time,omitempty"`
	// AllowedTools is the tool registration allow-list (empty = deny all).
	AllowedTools []string `json:"allowed_tools,omitempty" yaml:"allowed_tools,omitempty"`
	// MaxPlanSteps caps steps per generated plan.
	MaxPlanSteps int `json:"max_plan_steps,omitempty" yaml:"max_plan_steps,omitempty"`
	// MaxPlanDuration is the feasibility ceiling on estimated plan duration.
	MaxPlanDuration Duration `json:"max_plan_duration,omitempty" yaml:"max_plan_duration,omitempty"`
}

// CapabilitiesConfig contains capability toggles.
type CapabilitiesConfig struct {
	// PrioritizeTasks enables deadline-aware goal prioritization.
	PrioritizeTasks bool `json:"prioritize_tasks" yaml:"prioritize_tasks"`
	// ParallelPlans allows plans with independent steps.
	ParallelPlans bool `json:"parallel_plans" yaml:"parallel_plans"`
	// AdaptPlans enables incremental re-planning of in-flight plans.
	AdaptPlans bool `json:"adapt_plans" yaml:"adapt_plans"`
	// InitiateConversations allows outbound messages.
	InitiateConversations bool `json:"initiate_conversations" yaml:"initiate_conversations"`
}

// ResilienceConfig contains tool execution resilience settings.
type ResilienceConfig struct {
	// MaxConcurrent limits concurrent tool executions.
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`
	// CircuitBreakerThreshold is consecutive failures before the circuit opens.
	CircuitBreakerThreshold int `json:"circuit_breaker_threshold,omitempty" yaml:"circuit_breaker_threshold,omitempty"`
	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout Duration `json:"circuit_breaker_timeout,omitempty" yaml:"circuit_breaker_timeout,omitempty"`
	// RetryMaxAttempts is the retry cap for idempotent tools.
	RetryMaxAttempts int `json:"retry_max_attempts,omitempty" yaml:"retry_max_attempts,omitempty"`
	// RetryInitialDelay is the initial delay between retries.
	RetryInitialDelay Duration `json:"retry_initial_delay,omitempty" yaml:"retry_initial_delay,omitempty"`
	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64 `json:"retry_backoff_multiplier,omitempty" yaml:"retry_backoff_multiplier,omitempty"`
	// Timeout is the per-execution timeout.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is the output format (json or console).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TelemetryConfig contains telemetry settings.
type TelemetryConfig struct {
	// Enabled turns OpenTelemetry instrumentation on.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// ServiceName identifies this agent in exported telemetry.
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
	// TraceExporter selects the span exporter (stdout or none).
	TraceExporter string `json:"trace_exporter,omitempty" yaml:"trace_exporter,omitempty"`
}

// StorageConfig contains storage backend settings.
type StorageConfig struct {
	// Memory configures the episodic memory store.
	Memory MemoryStorageConfig `json:"memory,omitempty" yaml:"memory,omitempty"`
	// Events configures the event journal.
	Events EventStorageConfig `json:"events,omitempty" yaml:"events,omitempty"`
}

// MemoryStorageConfig selects and configures the memory backend.
type MemoryStorageConfig struct {
	// Backend is the store implementation (inmem or redis).
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// Redis configures the redis backend.
	Redis RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

// EventStorageConfig selects and configures the event journal backend.
type EventStorageConfig struct {
	// Backend is the journal implementation (inmem or badger).
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// Badger configures the badger backend.
	Badger BadgerConfig `json:"badger,omitempty" yaml:"badger,omitempty"`
}

// RedisConfig contains redis connection settings.
type RedisConfig struct {
	// Address is the host:port of the redis server.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	// Password authenticates the connection.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	// DB is the database index.
	DB int `json:"db,omitempty" yaml:"db,omitempty"`
	// KeyPrefix is prepended to all keys.
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
	// PoolSize is the connection pool size.
	PoolSize int `json:"pool_size,omitempty" yaml:"pool_size,omitempty"`
}

// BadgerConfig contains badger database settings.
type BadgerConfig struct {
	// Dir is the data directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
	// InMemory uses in-memory storage.
	InMemory bool `json:"in_memory,omitempty" yaml:"in_memory,omitempty"`
	// SyncWrites enables synchronous writes.
	SyncWrites bool `json:"sync_writes,omitempty" yaml:"sync_writes,omitempty"`
	// KeyPrefix is prepended to all keys.
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
}

// DefaultAgentConfig returns a configuration with sensible defaults. Loaders
// decode user configuration over these defaults, so omitted fields keep them.
func DefaultAgentConfig() *AgentConfig {
	return &AgentConfig{
		Name:    "autopilot",
		Version: "1.0",
		Agent: AgentSettings{
			CycleInterval: Duration(time.Second),
		},
		Guardrails: GuardrailsConfig{
			MaxMemoryMB:             512,
			MaxConcurrentOperations: 5,
			MaxExecutionTime:        Duration(time.Hour),
			MaxPlanSteps:            10,
			MaxPlanDuration:         Duration(30 * time.Minute),
		},
		Capabilities: CapabilitiesConfig{
			PrioritizeTasks:       true,
			AdaptPlans:            true,
			InitiateConversations: true,
		},
		Resilience: ResilienceConfig{
			MaxConcurrent:           10,
			CircuitBreakerThreshold: 5,
			CircuitBreakerTimeout:   Duration(30 * time.Second),
			RetryMaxAttempts:        3,
			RetryInitialDelay:       Duration(100 * time.Millisecond),
			RetryBackoffMultiplier:  2.0,
			Timeout:                 Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "autopilot",
			TraceExporter: "stdout",
		},
		Storage: StorageConfig{
			Memory: MemoryStorageConfig{Backend: "inmem"},
			Events: EventStorageConfig{Backend: "inmem"},
		},
	}
}

// Duration wraps time.Duration for human-readable config values like "30s".
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
