package memory

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/autopilot/domain/event"
)

func TestEventStore_Append_Sequences(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		e, _ := event.New("agent-1", event.TypeStatusChanged, nil)
		if err := s.Append(ctx, e); err != nil {
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

func TestEventStore_Append_RequiresAgentID(t *testing.T) {
	s := NewEventStore()
	e := event.Event{Type: event.TypeError}
	if err := s.Append(context.Background(), e); err == nil {
		t.Error("Append() without agent ID should fail")
	}
}

func TestEventStore_Closed(t *testing.T) {
	s := NewEventStore()
	_ = s.Close()

	e, _ := event.New("agent-1", event.TypeError, nil)
	if err := s.Append(context.Background(), e); err == nil {
		t.Error("Append() on closed store should fail")
	}
	if _, err := s.List(context.Background(), "agent-1"); err == nil {
		t.Error("List() on closed store should fail")
	}
}
