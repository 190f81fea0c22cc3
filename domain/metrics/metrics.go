// Package metrics provides the per-agent performance counters maintained by
// the cycle loop.
package metrics

import (
	"sync"
	"time"
)

// Snapshot is an immutable view of an agent's performance figures.
type Snapshot struct {
	TasksAttempted      int           `json:"tasks_attempted"`
	TasksCompleted      int           `json:"tasks_completed"`
	AverageResponseTime time.Duration `json:"average_response_time"`
	SuccessRate         float64       `json:"success_rate"`
	Uptime              time.Duration `json:"uptime"`
}

// Performance accumulates process-wide per-agent metrics, updated once per
// cycle by the loop and read concurrently by external snapshot calls.
type Performance struct {
	mu        sync.RWMutex
	attempted int
	completed int
	avg       time.Duration
	started   time.Time
}

// NewPerformance creates an empty metrics accumulator.
func NewPerformance() *Performance {
	return &Performance{}
}

// Start records the loop start time for uptime accounting.
func (p *Performance) Start(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = now
}

// RecordCycle folds one cycle into the counters. Every cycle counts as an
// attempt; completed is true only when the cycle executed its selected
// option without error.
// The running mean uses newAvg = (oldAvg*(n-1) + cycleTime) / n.
func (p *Performance) RecordCycle(cycleTime time.Duration, completed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.attempted++
	n := time.Duration(p.attempted)
	p.avg = (p.avg*(n-1) + cycleTime) / n
	if completed {
		p.completed++
	}
}

// Snapshot returns the current figures. SuccessRate is 0 when no cycle has
// been attempted.
func (p *Performance) Snapshot(now time.Time) Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := Snapshot{
		TasksAttempted:      p.attempted,
		TasksCompleted:      p.completed,
		AverageResponseTime: p.avg,
	}
	if p.attempted > 0 {
		s.SuccessRate = float64(p.completed) / float64(p.attempted)
	}
	if !p.started.IsZero() {
		s.Uptime = now.Sub(p.started)
	}
	return s
}
