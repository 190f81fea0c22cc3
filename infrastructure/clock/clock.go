// Package clock provides an injectable time source so pacing, backoff, and
// deadline-urgency behavior can be tested deterministically.
package clock

import (
	"context"
	"time"
)

// Clock abstracts wall-clock reads and sleeps.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for the given duration or until the context is done,
	// whichever comes first.
	Sleep(ctx context.Context, d time.Duration)
}

// System is the wall-clock implementation.
type System struct{}

// NewSystem returns the wall-clock clock.
func NewSystem() System { return System{} }

// Now returns the current wall-clock time.
func (System) Now() time.Time { return time.Now() }

// Sleep blocks on a timer, honoring context cancellation.
func (System) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
