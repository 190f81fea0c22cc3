package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/autopilot/domain/event"
)

// EventStore is an in-memory implementation of event.Store.
type EventStore struct {
	events    map[string][]event.Event
	sequences map[string]uint64
	closed    bool
	mu        sync.RWMutex
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events:    make(map[string][]event.Event),
		sequences: make(map[string]uint64),
	}
}

// Append persists one or more events, assigning per-agent sequence numbers.
func (s *EventStore) Append(ctx context.Context, events ...event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return event.ErrStoreClosed
	}

	for _, e := range events {
		if e.AgentID == "" {
			return event.ErrInvalidAgent
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		s.sequences[e.AgentID]++
		e.Sequence = s.sequences[e.AgentID]
		s.events[e.AgentID] = append(s.events[e.AgentID], e)
	}
	return nil
}

// List returns all events for an agent in sequence order.
func (s *EventStore) List(ctx context.Context, agentID string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, event.ErrStoreClosed
	}

	out := make([]event.Event, len(s.events[agentID]))
	copy(out, s.events[agentID])
	return out, nil
}

// Close marks the store closed.
func (s *EventStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ensure EventStore implements event.Store
var _ event.Store = (*EventStore)(nil)
