package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/autopilot/domain/memory"
)

// MemoryStore is an in-memory implementation of the episodic memory.Store.
type MemoryStore struct {
	entries map[string][]memory.Entry
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory episodic store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]memory.Entry),
	}
}

// Store appends an entry.
func (s *MemoryStore) Store(ctx context.Context, entry memory.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.AgentID == "" {
		return memory.ErrInvalidEntry
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.AgentID] = append(s.entries[entry.AgentID], entry)
	return nil
}

// List returns entries for an agent, oldest first, matching the filter.
func (s *MemoryStore) List(ctx context.Context, agentID string, filter memory.ListFilter) ([]memory.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []memory.Entry
	for _, e := range s.entries[agentID] {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if !filter.FromTime.IsZero() && e.CreatedAt.Before(filter.FromTime) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of entries held for an agent.
func (s *MemoryStore) Count(ctx context.Context, agentID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries[agentID])), nil
}

// Close releases resources. A no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements memory.Store
var _ memory.Store = (*MemoryStore)(nil)
