package policy

import "runtime"

// MemorySampler reports current process heap usage in megabytes. Injectable
// so tests can simulate memory pressure deterministically.
type MemorySampler func() float64

// HeapSampler is the default sampler, reading the Go runtime's heap figure.
func HeapSampler() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc) / (1024 * 1024)
}

// Monitor evaluates the guardrail predicates before each cycle. It is
// stateless: every call samples live memory and concurrency figures.
type Monitor struct {
	guardrails Guardrails
	sampler    MemorySampler
}

// NewMonitor creates a monitor for the given guardrails.
func NewMonitor(g Guardrails) *Monitor {
	return &Monitor{guardrails: g, sampler: HeapSampler}
}

// WithSampler replaces the memory sampler and returns the monitor.
func (m *Monitor) WithSampler(s MemorySampler) *Monitor {
	m.sampler = s
	return m
}

// Violation identifies which guardrail failed, for logging and events.
type Violation string

const (
	ViolationNone        Violation = ""
	ViolationMemory      Violation = "memory ceiling exceeded"
	ViolationConcurrency Violation = "concurrent operation ceiling exceeded"
)

// Check returns false when current memory usage exceeds the memory ceiling or
// the in-progress goal count exceeds the concurrency ceiling. Both guards are
// soft: the caller pauses and rechecks rather than aborting.
func (m *Monitor) Check(inProgressGoals int) (bool, Violation) {
	if m.guardrails.MaxMemoryMB > 0 && m.sampler() > m.guardrails.MaxMemoryMB {
		return false, ViolationMemory
	}
	if inProgressGoals > m.guardrails.MaxConcurrentOperations {
		return false, ViolationConcurrency
	}
	return true, ViolationNone
}

// Guardrails returns the monitored guardrail configuration.
func (m *Monitor) Guardrails() Guardrails {
	return m.guardrails
}
