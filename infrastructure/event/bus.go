// Package event provides the in-process event bus and journaling publisher.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/autopilot/domain/event"
)

// defaultSubscriberBuffer is the per-subscriber channel capacity. A slow
// subscriber that falls this far behind starts losing events rather than
// stalling the control loop.
const defaultSubscriberBuffer = 64

// Bus is an in-process fan-out bus implementing event.Bus. Delivery to each
// subscriber is independent: one blocked subscriber never delays another or
// the publisher.
type Bus struct {
	subscribers map[int]*subscription
	store       event.Store
	bufSize     int
	nextID      int
	closed      bool
	mu          sync.Mutex
}

type subscription struct {
	ch    chan event.Event
	types map[event.Type]bool
}

// BusOption configures the bus.
type BusOption func(*Bus)

// WithStore journals every published event to the given store.
func WithStore(store event.Store) BusOption {
	return func(b *Bus) {
		b.store = store
	}
}

// WithSubscriberBuffer sets the per-subscriber channel capacity.
func WithSubscriberBuffer(size int) BusOption {
	return func(b *Bus) {
		if size > 0 {
			b.bufSize = size
		}
	}
}

// NewBus creates a new in-process event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subscribers: make(map[int]*subscription),
		bufSize:     defaultSubscriberBuffer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to all matching subscribers and, when a store is
// configured, appends them to the journal. A full subscriber channel drops
// the event for that subscriber only.
func (b *Bus) Publish(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return event.ErrStoreClosed
	}
	for _, e := range events {
		for _, sub := range b.subscribers {
			if len(sub.types) > 0 && !sub.types[e.Type] {
				continue
			}
			select {
			case sub.ch <- e:
			default:
			}
		}
	}
	store := b.store
	b.mu.Unlock()

	if store != nil {
		if err := store.Append(ctx, events...); err != nil {
			return fmt.Errorf("journaling events: %w", err)
		}
	}
	return nil
}

// Subscribe registers a new subscriber for the given event types, or for all
// events when no types are named. The returned cancel function is idempotent.
func (b *Bus) Subscribe(types ...event.Type) (<-chan event.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{ch: make(chan event.Event, b.bufSize)}
	if len(types) > 0 {
		sub.types = make(map[event.Type]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}

	if b.closed {
		close(sub.ch)
		return sub.ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub.ch)
			}
		})
	}
	return sub.ch, cancel
}

// Close closes all subscriber channels and stops accepting publishes.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subscribers {
		delete(b.subscribers, id)
		close(sub.ch)
	}
	return nil
}

// Ensure Bus implements event.Bus
var _ event.Bus = (*Bus)(nil)
