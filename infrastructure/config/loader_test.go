package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/config"
)

const validYAML = `
name: test-agent
version: "1.0"
agent:
  cycle_interval: 500ms
  max_cycles: 20
  default_goal: keep the queue drained
guardrails:
  max_plan_steps: 4
  allowed_tools: [calc, search]
capabilities:
  prioritize_tasks: true
  adapt_plans: true
storage:
  events:
    backend: badger
    badger:
      in_memory: true
`

func TestLoader_LoadString_YAML(t *testing.T) {
	cfg, err := NewLoader().LoadString(validYAML, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Name != "test-agent" {
		t.Errorf("Name = %s", cfg.Name)
	}
	if cfg.Agent.CycleInterval.Duration() != 500*time.Millisecond {
		t.Errorf("CycleInterval = %v, want 500ms", cfg.Agent.CycleInterval.Duration())
	}
	if cfg.Agent.MaxCycles != 20 {
		t.Errorf("MaxCycles = %d, want 20", cfg.Agent.MaxCycles)
	}
	if cfg.Guardrails.MaxPlanSteps != 4 {
		t.Errorf("MaxPlanSteps = %d, want 4", cfg.Guardrails.MaxPlanSteps)
	}
	if len(cfg.Guardrails.AllowedTools) != 2 {
		t.Errorf("AllowedTools = %v", cfg.Guardrails.AllowedTools)
	}
	if cfg.Storage.Events.Backend != "badger" || !cfg.Storage.Events.Badger.InMemory {
		t.Errorf("Events storage = %+v", cfg.Storage.Events)
	}
	// Omitted sections keep their defaults.
	if cfg.Guardrails.MaxMemoryMB != 512 {
		t.Errorf("MaxMemoryMB = %v, want default 512", cfg.Guardrails.MaxMemoryMB)
	}
	if cfg.Resilience.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts = %d, want default 3", cfg.Resilience.RetryMaxAttempts)
	}
}

func TestLoader_LoadString_JSON(t *testing.T) {
	content := `{"name": "json-agent", "version": "2.0", "agent": {"cycle_interval": "2s"}}`

	cfg, err := NewLoader().LoadString(content, FormatJSON)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Name != "json-agent" || cfg.Version != "2.0" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Agent.CycleInterval.Duration() != 2*time.Second {
		t.Errorf("CycleInterval = %v, want 2s", cfg.Agent.CycleInterval.Duration())
	}
}

func TestLoader_LoadString_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
		wantErr error
	}{
		{"malformed yaml", "name: [unclosed", FormatYAML, config.ErrInvalidFormat},
		{"malformed json", "{not json", FormatJSON, config.ErrInvalidFormat},
		{"unknown format", "name: x", Format("toml"), config.ErrUnsupportedFormat},
		{"validation failure", "name: \"\"\nversion: \"1.0\"", FormatYAML, config.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadString(tt.content, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadString() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoader_LoadString_SkipValidation(t *testing.T) {
	l := NewLoaderWithOptions(WithValidation(false))

	cfg, err := l.LoadString("name: \"\"\nversion: \"\"", FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Name != "" {
		t.Errorf("Name = %s, want empty", cfg.Name)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Name != "test-agent" {
		t.Errorf("Name = %s", cfg.Name)
	}
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewLoader().LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("missing file error = %v, want ErrConfigNotFound", err)
	}
	if _, err := NewLoader().LoadFile(dir); !errors.Is(err, config.ErrInvalidFormat) {
		t.Errorf("directory error = %v, want ErrInvalidFormat", err)
	}

	tomlPath := filepath.Join(dir, "agent.toml")
	if err := os.WriteFile(tomlPath, []byte("name = \"x\""), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader().LoadFile(tomlPath); !errors.Is(err, config.ErrUnsupportedFormat) {
		t.Errorf("toml error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoader_EnvExpansion(t *testing.T) {
	t.Setenv("AUTOPILOT_AGENT_NAME", "env-agent")

	content := "name: ${AUTOPILOT_AGENT_NAME}\nversion: \"1.0\""
	cfg, err := NewLoader().LoadString(content, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Name != "env-agent" {
		t.Errorf("Name = %s, want env-agent", cfg.Name)
	}
}

func TestLoader_StrictEnv(t *testing.T) {
	l := NewLoaderWithOptions(WithStrictEnv(true), WithValidation(false))

	_, err := l.LoadString("name: ${AUTOPILOT_DOES_NOT_EXIST}", FormatYAML)
	if !errors.Is(err, config.ErrMissingEnvVar) {
		t.Errorf("LoadString() error = %v, want ErrMissingEnvVar", err)
	}
}
