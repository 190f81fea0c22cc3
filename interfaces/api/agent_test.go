package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/planning"
)

func waitForStop(t *testing.T, a *Agent) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !a.IsRunning() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("agent did not stop within the deadline")
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	a, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.ID() == "" {
		t.Error("agent ID not assigned")
	}
	if a.IsRunning() {
		t.Error("agent running before Start")
	}
	if got := a.State().Status; got != StatusIdle {
		t.Errorf("status = %s, want idle", got)
	}
}

func TestAgent_RunsGoalToCompletion(t *testing.T) {
	t.Parallel()

	var calls int
	echo := MustNewTool("echo", "echoes input", func(ctx context.Context, input json.RawMessage) (ToolResult, error) {
		calls++
		return ToolResult{Output: input}, nil
	})

	a, err := New(
		WithName("echo-agent"),
		WithTool(echo),
		WithCycleInterval(time.Millisecond),
		WithMaxCycles(5),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	a.AddGoal(NewGoal("g1", "echo", GoalImmediate, 1))
	a.Start(context.Background())
	waitForStop(t, a)
	a.Stop()

	state := a.State()
	if g := state.Goal("g1"); g == nil || !g.Status.IsTerminal() {
		t.Fatalf("goal = %+v, want terminal", g)
	}
	if calls == 0 {
		t.Error("tool never invoked")
	}
	if a.Metrics().TasksAttempted == 0 {
		t.Error("no cycles recorded")
	}
}

func TestAgent_RegisterToolOutsideAllowlist(t *testing.T) {
	t.Parallel()

	g := Guardrails{AllowedTools: []string{"search"}}
	shell := MustNewTool("shell", "runs commands", func(ctx context.Context, input json.RawMessage) (ToolResult, error) {
		return ToolResult{}, nil
	})

	_, err := New(WithGuardrails(g), WithTool(shell))
	if !errors.Is(err, ErrToolNotAllowed) {
		t.Errorf("New() error = %v, want ErrToolNotAllowed", err)
	}
}

func TestAgent_ConversationCapability(t *testing.T) {
	t.Parallel()

	caps := Capabilities{InitiateConversations: false}
	a, err := New(WithCapabilities(caps))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := a.SendMessage(context.Background(), "peer", "hi"); !errors.Is(err, ErrConversationsNotAllowed) {
		t.Errorf("SendMessage() error = %v, want ErrConversationsNotAllowed", err)
	}
}

func TestAgent_DirectPlanningErrorsPropagate(t *testing.T) {
	t.Parallel()

	a, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := a.Planner().CreatePlan(planning.Context{}); !errors.Is(err, ErrNoGoals) {
		t.Errorf("CreatePlan() error = %v, want ErrNoGoals", err)
	}
}
