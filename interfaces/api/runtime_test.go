package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	domainconfig "github.com/felixgeelhaar/autopilot/domain/config"
)

func TestRuntimeFromConfig_Defaults(t *testing.T) {
	cfg := domainconfig.DefaultAgentConfig()

	rt, err := RuntimeFromConfig(cfg)
	if err != nil {
		t.Fatalf("RuntimeFromConfig() error = %v", err)
	}
	defer rt.Close(context.Background())

	if rt.Agent == nil {
		t.Fatal("runtime has no agent")
	}
	if rt.Bus == nil || rt.Journal == nil {
		t.Fatal("runtime has no event plumbing")
	}
}

func TestRuntimeFromFile_RunsConfiguredAgent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	yaml := `
name: file-agent
agent:
  id: agent-file
  cycle_interval: 1ms
  max_cycles: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	rt, err := RuntimeFromFile(path)
	if err != nil {
		t.Fatalf("RuntimeFromFile() error = %v", err)
	}
	defer rt.Close(context.Background())

	if got := rt.Agent.ID(); got != "agent-file" {
		t.Errorf("agent ID = %s, want agent-file", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rt.Run(ctx)

	if rt.Agent.IsRunning() {
		t.Error("agent still running after Run returned")
	}

	h, err := rt.Replay(ctx)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if h.Runs != 1 {
		t.Errorf("Runs = %d, want 1", h.Runs)
	}
}

func TestRuntimeFromFile_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := RuntimeFromFile("/nonexistent/agent.yaml"); err == nil {
		t.Error("RuntimeFromFile() should fail for a missing file")
	}
}
