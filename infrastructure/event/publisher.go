package event

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/autopilot/domain/event"
)

// JournalPublisher writes events to an event store, optionally batching them
// to amortize store round trips. With no buffer configured every publish is
// an immediate append.
type JournalPublisher struct {
	store   event.Store
	buffer  []event.Event
	bufSize int
	mu      sync.Mutex
}

// JournalOption configures the journal publisher.
type JournalOption func(*JournalPublisher)

// WithBatchSize sets the number of events held before an automatic flush.
func WithBatchSize(size int) JournalOption {
	return func(p *JournalPublisher) {
		p.bufSize = size
	}
}

// NewJournalPublisher creates a store-backed publisher.
func NewJournalPublisher(store event.Store, opts ...JournalOption) *JournalPublisher {
	p := &JournalPublisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize > 0 {
		p.buffer = make([]event.Event, 0, p.bufSize)
	}
	return p
}

// Publish appends events to the store, batching when configured.
func (p *JournalPublisher) Publish(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bufSize == 0 {
		return p.store.Append(ctx, events...)
	}

	p.buffer = append(p.buffer, events...)
	if len(p.buffer) >= p.bufSize {
		return p.flush(ctx)
	}
	return nil
}

// Flush writes all buffered events to the store.
func (p *JournalPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flush(ctx)
}

// flush writes buffered events to the store (must hold lock).
func (p *JournalPublisher) flush(ctx context.Context) error {
	if len(p.buffer) == 0 {
		return nil
	}
	if err := p.store.Append(ctx, p.buffer...); err != nil {
		return err
	}
	p.buffer = p.buffer[:0]
	return nil
}

// Close flushes remaining events.
func (p *JournalPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flush(context.Background())
}

// Ensure JournalPublisher implements event.Publisher
var _ event.Publisher = (*JournalPublisher)(nil)
