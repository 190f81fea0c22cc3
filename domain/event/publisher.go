package event

import "context"

// Publisher publishes events to the agent's event stream.
type Publisher interface {
	// Publish sends events to all current subscribers.
	Publish(ctx context.Context, events ...Event) error

	// Close releases any resources held by the publisher.
	Close() error
}

// Subscriber receives events from the stream.
type Subscriber interface {
	// Subscribe returns a channel receiving events of the given types (all
	// types when none are named) and a cancel function that releases the
	// subscription.
	Subscribe(types ...Type) (<-chan Event, func())
}

// Bus combines publishing and subscribing.
type Bus interface {
	Publisher
	Subscriber
}
