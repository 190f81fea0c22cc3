package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the JSON path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates agent configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *AgentConfig) ValidationErrors {
	v.errors = nil

	v.validateRequired(config)
	v.validateAgent(config)
	v.validateGuardrails(config)
	v.validateResilience(config)
	v.validateLogging(config)
	v.validateTelemetry(config)
	v.validateStorage(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateRequired(config *AgentConfig) {
	if config.Name == "" {
		v.addError("name", "name is required")
	}
	if config.Version == "" {
		v.addError("version", "version is required")
	}
}

func (v *Validator) validateAgent(config *AgentConfig) {
	if config.Agent.CycleInterval < 0 {
		v.addError("agent.cycle_interval", "cycle_interval must be non-negative")
	}
	if config.Agent.MaxCycles < 0 {
		v.addError("agent.max_cycles", "max_cycles must be non-negative")
	}
}

func (v *Validator) validateGuardrails(config *AgentConfig) {
	g := config.Guardrails
	if g.MaxMemoryMB < 0 {
		v.addError("guardrails.max_memory_mb", "max_memory_mb must be non-negative")
	}
	if g.MaxConcurrentOperations < 0 {
		v.addError("guardrails.max_concurrent_operations", "max_concurrent_operations must be non-negative")
	}
	if g.MaxExecutionTime < 0 {
		v.addError("guardrails.max_execution_time", "max_execution_time must be non-negative")
	}
	if g.MaxPlanSteps < 0 {
		v.addError("guardrails.max_plan_steps", "max_plan_steps must be non-negative")
	}
	if g.MaxPlanDuration < 0 {
		v.addError("guardrails.max_plan_duration", "max_plan_duration must be non-negative")
	}
	for i, name := range g.AllowedTools {
		if name == "" {
			v.addError(fmt.Sprintf("guardrails.allowed_tools[%d]", i), "tool name must not be empty")
		}
	}
}

func (v *Validator) validateResilience(config *AgentConfig) {
	r := config.Resilience
	if r.MaxConcurrent < 0 {
		v.addError("resilience.max_concurrent", "max_concurrent must be non-negative")
	}
	if r.CircuitBreakerThreshold < 0 {
		v.addError("resilience.circuit_breaker_threshold", "circuit_breaker_threshold must be non-negative")
	}
	if r.RetryMaxAttempts < 0 {
		v.addError("resilience.retry_max_attempts", "retry_max_attempts must be non-negative")
	}
	if r.RetryBackoffMultiplier != 0 && r.RetryBackoffMultiplier < 1 {
		v.addError("resilience.retry_backoff_multiplier", "retry_backoff_multiplier must be at least 1")
	}
	if r.Timeout < 0 {
		v.addError("resilience.timeout", "timeout must be non-negative")
	}
}

func (v *Validator) validateLogging(config *AgentConfig) {
	if config.Logging.Level != "" {
		validLevels := map[string]bool{
			"trace": true, "debug": true, "info": true, "warn": true, "error": true,
		}
		if !validLevels[config.Logging.Level] {
			v.addError("logging.level", fmt.Sprintf("invalid level: %s", config.Logging.Level))
		}
	}
	if config.Logging.Format != "" {
		if config.Logging.Format != "json" && config.Logging.Format != "console" {
			v.addError("logging.format", fmt.Sprintf("invalid format: %s", config.Logging.Format))
		}
	}
}

func (v *Validator) validateTelemetry(config *AgentConfig) {
	if config.Telemetry.TraceExporter != "" {
		if config.Telemetry.TraceExporter != "stdout" && config.Telemetry.TraceExporter != "none" {
			v.addError("telemetry.trace_exporter", fmt.Sprintf("invalid exporter: %s", config.Telemetry.TraceExporter))
		}
	}
	if config.Telemetry.Enabled && config.Telemetry.ServiceName == "" {
		v.addError("telemetry.service_name", "service_name is required when telemetry is enabled")
	}
}

func (v *Validator) validateStorage(config *AgentConfig) {
	s := config.Storage
	if s.Memory.Backend != "" && s.Memory.Backend != "inmem" && s.Memory.Backend != "redis" {
		v.addError("storage.memory.backend", fmt.Sprintf("invalid backend: %s", s.Memory.Backend))
	}
	if s.Memory.Backend == "redis" && s.Memory.Redis.Address == "" {
		v.addError("storage.memory.redis.address", "address is required for the redis backend")
	}
	if s.Events.Backend != "" && s.Events.Backend != "inmem" && s.Events.Backend != "badger" {
		v.addError("storage.events.backend", fmt.Sprintf("invalid backend: %s", s.Events.Backend))
	}
	if s.Events.Backend == "badger" && !s.Events.Badger.InMemory && s.Events.Badger.Dir == "" {
		v.addError("storage.events.badger.dir", "dir is required unless in_memory is set")
	}
}
