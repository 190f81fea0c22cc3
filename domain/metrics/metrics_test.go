package metrics

import (
	"testing"
	"time"
)

func TestPerformance_RecordCycle_RunningMean(t *testing.T) {
	p := NewPerformance()

	p.RecordCycle(100*time.Millisecond, false)
	p.RecordCycle(200*time.Millisecond, true)
	p.RecordCycle(300*time.Millisecond, true)

	s := p.Snapshot(time.Now())
	if s.TasksAttempted != 3 {
		t.Errorf("TasksAttempted = %d, want 3", s.TasksAttempted)
	}
	if s.TasksCompleted != 2 {
		t.Errorf("TasksCompleted = %d, want 2", s.TasksCompleted)
	}
	if s.AverageResponseTime != 200*time.Millisecond {
		t.Errorf("AverageResponseTime = %v, want 200ms", s.AverageResponseTime)
	}
	if s.SuccessRate < 0.66 || s.SuccessRate > 0.67 {
		t.Errorf("SuccessRate = %v, want 2/3", s.SuccessRate)
	}
}

func TestPerformance_Snapshot_NoAttempts(t *testing.T) {
	p := NewPerformance()
	s := p.Snapshot(time.Now())

	// Divide-by-zero guard: success rate is defined as 0 with no attempts.
	if s.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", s.SuccessRate)
	}
	if s.AverageResponseTime != 0 {
		t.Errorf("AverageResponseTime = %v, want 0", s.AverageResponseTime)
	}
}

func TestPerformance_Uptime(t *testing.T) {
	p := NewPerformance()
	start := time.Now()
	p.Start(start)

	s := p.Snapshot(start.Add(5 * time.Second))
	if s.Uptime != 5*time.Second {
		t.Errorf("Uptime = %v, want 5s", s.Uptime)
	}
}
