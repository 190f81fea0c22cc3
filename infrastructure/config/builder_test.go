package config

import (
	"errors"
	"testing"
	"time"

	domainconfig "github.com/felixgeelhaar/autopilot/domain/config"
)

func builderConfig() *domainconfig.AgentConfig {
	cfg := domainconfig.DefaultAgentConfig()
	cfg.Name = "builder-agent"
	cfg.Agent.ID = "agent-42"
	cfg.Agent.CycleInterval = domainconfig.Duration(2 * time.Second)
	cfg.Agent.MaxCycles = 100
	cfg.Agent.DefaultGoal = "watch the queue"
	cfg.Guardrails.AllowedTools = []string{"calc"}
	return cfg
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	result, err := NewBuilder(builderConfig()).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if result.AgentID != "agent-42" || result.AgentName != "builder-agent" {
		t.Errorf("identity = (%s, %s)", result.AgentID, result.AgentName)
	}
	if result.CycleInterval != 2*time.Second {
		t.Errorf("CycleInterval = %v, want 2s", result.CycleInterval)
	}
	if result.MaxCycles != 100 {
		t.Errorf("MaxCycles = %d, want 100", result.MaxCycles)
	}
	if result.DefaultGoal != "watch the queue" {
		t.Errorf("DefaultGoal = %s", result.DefaultGoal)
	}

	if result.Guardrails.MaxPlanSteps != 10 || !result.Guardrails.ToolAllowed("calc") {
		t.Errorf("Guardrails = %+v", result.Guardrails)
	}
	if !result.Capabilities.PrioritizeTasks || result.Capabilities.ParallelPlans {
		t.Errorf("Capabilities = %+v", result.Capabilities)
	}
	if result.Executor.RetryMaxAttempts != 3 || result.Executor.DefaultTimeout != 30*time.Second {
		t.Errorf("Executor = %+v", result.Executor)
	}
	if result.Logging.Level != "info" || result.Logging.Format != "console" {
		t.Errorf("Logging = %+v", result.Logging)
	}

	// Default backends need no external stores.
	if result.Redis != nil || result.Badger != nil {
		t.Errorf("storage configs = (%v, %v), want both nil", result.Redis, result.Badger)
	}
}

func TestBuilder_Build_RedisBackend(t *testing.T) {
	t.Parallel()

	cfg := builderConfig()
	cfg.Storage.Memory.Backend = "redis"
	cfg.Storage.Memory.Redis.Address = "redis.internal:6380"
	cfg.Storage.Memory.Redis.KeyPrefix = "myagent:"
	cfg.Storage.Memory.Redis.PoolSize = 4

	result, err := NewBuilder(cfg).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Redis == nil {
		t.Fatal("Redis config not built")
	}
	if result.Redis.Address != "redis.internal:6380" {
		t.Errorf("Address = %s", result.Redis.Address)
	}
	if result.Redis.KeyPrefix != "myagent:" {
		t.Errorf("KeyPrefix = %s", result.Redis.KeyPrefix)
	}
	if result.Redis.PoolSize != 4 {
		t.Errorf("PoolSize = %d", result.Redis.PoolSize)
	}
	// Unspecified connection settings keep store defaults.
	if result.Redis.ConnectTimeout != 5*time.Second {
		t.Errorf("ConnectTimeout = %v, want default 5s", result.Redis.ConnectTimeout)
	}
}

func TestBuilder_Build_BadgerBackend(t *testing.T) {
	t.Parallel()

	cfg := builderConfig()
	cfg.Storage.Events.Backend = "badger"
	cfg.Storage.Events.Badger.Dir = "/var/lib/autopilot"
	cfg.Storage.Events.Badger.SyncWrites = true

	result, err := NewBuilder(cfg).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Badger == nil {
		t.Fatal("Badger config not built")
	}
	if result.Badger.Dir != "/var/lib/autopilot" || !result.Badger.SyncWrites {
		t.Errorf("Badger = %+v", result.Badger)
	}
}

func TestBuilder_Build_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewBuilder(nil).Build(); !errors.Is(err, domainconfig.ErrBuildFailed) {
		t.Errorf("nil config error = %v, want ErrBuildFailed", err)
	}

	cfg := builderConfig()
	cfg.Name = ""
	if _, err := NewBuilder(cfg).Build(); !errors.Is(err, domainconfig.ErrBuildFailed) {
		t.Errorf("invalid config error = %v, want ErrBuildFailed", err)
	}
}
