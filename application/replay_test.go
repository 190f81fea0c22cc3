package application

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	memstore "github.com/felixgeelhaar/autopilot/infrastructure/storage/memory"
)

func TestReplay_ReconstructsRunHistory(t *testing.T) {
	rig := newTestRig(t, nil)
	rig.sched.AddGoal(agent.NewGoal("g1", "tidy workspace", agent.GoalImmediate, 1))

	runToStop(t, rig)

	h, err := Replay(context.Background(), rig.journal, "agent-1")
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	if h.Runs != 1 {
		t.Errorf("Runs = %d, want 1", h.Runs)
	}
	if h.LastStatus != agent.StatusStopped {
		t.Errorf("LastStatus = %s, want stopped", h.LastStatus)
	}
	if len(h.CompletedGoals) != 1 || h.CompletedGoals[0] != "g1" {
		t.Errorf("CompletedGoals = %v, want [g1]", h.CompletedGoals)
	}
	if len(h.Timeline) == 0 {
		t.Error("Timeline is empty")
	}
	if len(h.Errors) != 0 {
		t.Errorf("Errors = %v, want none", h.Errors)
	}
}

func TestReplay_CollectsErrors(t *testing.T) {
	behavior := &stubBehavior{perceiveErr: errors.New("sensor offline")}
	rig := newTestRig(t, func(cfg *SchedulerConfig) {
		cfg.Behavior = behavior
		cfg.MaxCycles = 2
	})
	rig.sched.AddGoal(agent.NewGoal("g1", "tidy workspace", agent.GoalImmediate, 1))

	runToStop(t, rig)

	h, err := Replay(context.Background(), rig.journal, "agent-1")
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(h.Errors) != 2 {
		t.Fatalf("Errors = %d, want 2", len(h.Errors))
	}
	if h.Errors[0].Message == "" {
		t.Error("replayed error has no message")
	}
}

func TestReplay_EmptyJournal(t *testing.T) {
	t.Parallel()

	h, err := Replay(context.Background(), memstore.NewEventStore(), "ghost")
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if h.Runs != 0 || len(h.Timeline) != 0 || h.LastStatus != "" {
		t.Errorf("history for empty journal = %+v", h)
	}
}
