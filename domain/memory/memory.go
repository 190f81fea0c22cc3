// Package memory provides domain models for episodic memory: an append-only
// log of agent-observed events such as messages and errors, external to the
// cycle core.
package memory

import (
	"context"
	"time"
)

// EntryType classifies episodic entries.
type EntryType string

const (
	EntryError       EntryType = "error"
	EntryMessage     EntryType = "message"
	EntryObservation EntryType = "observation"
)

// Entry is one episodic record. Importance is a hint in [0,1] for downstream
// consolidation; the core only writes, never ranks.
type Entry struct {
	ID         string    `json:"id"`
	AgentID    string    `json:"agent_id"`
	Type       EntryType `json:"type"`
	Content    string    `json:"content"`
	Importance float64   `json:"importance"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListFilter provides filtering options for list operations.
type ListFilter struct {
	Type     EntryType // Filter by entry type when non-empty
	FromTime time.Time // Entries created after this time
	Limit    int       // Maximum number of results, 0 for all
}

// Store defines the interface for episodic persistence. Writes from the cycle
// loop are fire-and-forget: a failed store never fails the cycle.
type Store interface {
	// Store appends an entry.
	Store(ctx context.Context, entry Entry) error

	// List returns entries for an agent, oldest first, matching the filter.
	List(ctx context.Context, agentID string, filter ListFilter) ([]Entry, error)

	// Count returns the number of entries held for an agent.
	Count(ctx context.Context, agentID string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
