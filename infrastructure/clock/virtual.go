package clock

import (
	"context"
	"sync"
	"time"
)

// Virtual is a deterministic clock for tests. Time only moves when Advance is
// called; sleepers wake once the virtual time passes their deadline.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan struct{}
}

// NewVirtual creates a virtual clock starting at the given time.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Sleep blocks until the virtual clock advances past now+d or the context is
// done.
func (v *Virtual) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	v.mu.Lock()
	w := waiter{deadline: v.now.Add(d), ch: make(chan struct{})}
	v.waiters = append(v.waiters, w)
	v.mu.Unlock()

	select {
	case <-w.ch:
	case <-ctx.Done():
	}
}

// Advance moves the virtual time forward and wakes every sleeper whose
// deadline has passed.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	v.now = v.now.Add(d)
	remaining := v.waiters[:0]
	var woken []waiter
	for _, w := range v.waiters {
		if !w.deadline.After(v.now) {
			woken = append(woken, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	v.waiters = remaining
	v.mu.Unlock()

	for _, w := range woken {
		close(w.ch)
	}
}

// Sleepers returns the number of goroutines currently blocked in Sleep.
func (v *Virtual) Sleepers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.waiters)
}
