package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/autopilot/domain/event"
)

func newTestStore(t *testing.T) *EventStore {
	t.Helper()

	s, err := NewEventStore(DefaultConfig(), WithInMemory(), WithKeyPrefix("test:"))
	if err != nil {
		t.Fatalf("NewEventStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustEvent(t *testing.T, agentID string, typ event.Type) event.Event {
	t.Helper()
	e, err := event.New(agentID, typ, map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("event.New() error = %v", err)
	}
	return e
}

func TestEventStore_AppendList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Append(ctx, mustEvent(t, "agent-1", event.TypeStatusChanged)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	events, err := s.List(ctx, "agent-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("List() returned %d events, want 3", len(events))
	}
	for i, e := range events {
		if e.Sequence != uint64(i+1) {
			t.Errorf("event %d Sequence = %d, want %d", i, e.Sequence, i+1)
		}
		if e.ID == "" {
			t.Errorf("event %d has no assigned ID", i)
		}
	}
}

func TestEventStore_Append_Batch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Append(ctx,
		mustEvent(t, "agent-1", event.TypeAgentStarted),
		mustEvent(t, "agent-2", event.TypeAgentStarted),
		mustEvent(t, "agent-1", event.TypeStatusChanged),
	)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	a1, _ := s.List(ctx, "agent-1")
	a2, _ := s.List(ctx, "agent-2")
	if len(a1) != 2 || len(a2) != 1 {
		t.Errorf("per-agent counts = (%d, %d), want (2, 1)", len(a1), len(a2))
	}
	// Sequences are per agent, not global.
	if a2[0].Sequence != 1 {
		t.Errorf("agent-2 first Sequence = %d, want 1", a2[0].Sequence)
	}
}

func TestEventStore_Append_RequiresAgentID(t *testing.T) {
	s := newTestStore(t)

	err := s.Append(context.Background(), event.Event{Type: event.TypeError})
	if !errors.Is(err, event.ErrInvalidAgent) {
		t.Errorf("Append() error = %v, want ErrInvalidAgent", err)
	}
}

func TestEventStore_ListFrom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = s.Append(ctx, mustEvent(t, "agent-1", event.TypeStatusUpdate))
	}

	events, err := s.ListFrom(ctx, "agent-1", 3)
	if err != nil {
		t.Fatalf("ListFrom() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("ListFrom(3) returned %d events, want 3", len(events))
	}
	if events[0].Sequence != 3 {
		t.Errorf("first Sequence = %d, want 3", events[0].Sequence)
	}
}

func TestEventStore_Count(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Append(ctx, mustEvent(t, "agent-1", event.TypeError))
	_ = s.Append(ctx, mustEvent(t, "agent-1", event.TypeError))

	n, err := s.Count(ctx, "agent-1")
	if err != nil || n != 2 {
		t.Errorf("Count() = (%d, %v), want (2, nil)", n, err)
	}
}

func TestEventStore_Agents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Append(ctx, mustEvent(t, "agent-1", event.TypeAgentStarted))
	_ = s.Append(ctx, mustEvent(t, "agent-2", event.TypeAgentStarted))

	agents, err := s.Agents(ctx)
	if err != nil {
		t.Fatalf("Agents() error = %v", err)
	}
	if len(agents) != 2 {
		t.Errorf("Agents() returned %v, want 2 agents", agents)
	}
}

func TestEventStore_Purge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Append(ctx, mustEvent(t, "agent-1", event.TypeError))
	if err := s.Purge(ctx, "agent-1"); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}

	events, _ := s.List(ctx, "agent-1")
	if len(events) != 0 {
		t.Errorf("List() after Purge returned %d events, want 0", len(events))
	}

	// Sequence restarts after purge.
	_ = s.Append(ctx, mustEvent(t, "agent-1", event.TypeError))
	events, _ = s.List(ctx, "agent-1")
	if len(events) != 1 || events[0].Sequence != 1 {
		t.Errorf("sequence after purge = %+v, want restart at 1", events)
	}
}

func TestEventStore_Closed(t *testing.T) {
	s := newTestStore(t)
	_ = s.Close()

	ctx := context.Background()
	if err := s.Append(ctx, mustEvent(t, "agent-1", event.TypeError)); !errors.Is(err, event.ErrStoreClosed) {
		t.Errorf("Append() on closed store error = %v, want ErrStoreClosed", err)
	}
	if _, err := s.List(ctx, "agent-1"); !errors.Is(err, event.ErrStoreClosed) {
		t.Errorf("List() on closed store error = %v, want ErrStoreClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
