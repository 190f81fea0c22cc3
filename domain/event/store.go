package event

import "context"

// Store persists the event stream as an append-only journal.
// This is a repository interface - implementations are in infrastructure.
type Store interface {
	// Append persists one or more events atomically, assigning sequence
	// numbers within the agent's stream.
	Append(ctx context.Context, events ...Event) error

	// List returns all events for an agent in sequence order.
	List(ctx context.Context, agentID string) ([]Event, error)

	// Close releases any resources held by the store.
	Close() error
}
