// Package agent provides the core domain model for the autonomous agent runtime.
package agent

// Status represents the scheduler's position in the cycle state machine.
// Statuses are identified by stable strings, not behavioral definitions.
type Status string

// Canonical statuses of the autonomous cycle.
const (
	StatusIdle     Status = "idle"     // Between cycles
	StatusThinking Status = "thinking" // Perceive and plan phases
	StatusActing   Status = "acting"   // Execute and learn phases
	StatusError    Status = "error"    // Recovering after a cycle failure
	StatusStopped  Status = "stopped"  // Soft terminal, restartable
)

// IsRunning returns true if the status belongs to an active cycle loop.
func (s Status) IsRunning() bool {
	return s == StatusIdle || s == StatusThinking || s == StatusActing || s == StatusError
}

// IsValid returns true if the status is a recognized canonical status.
func (s Status) IsValid() bool {
	switch s {
	case StatusIdle, StatusThinking, StatusActing, StatusError, StatusStopped:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// AllStatuses returns all canonical statuses.
func AllStatuses() []Status {
	return []Status{
		StatusIdle,
		StatusThinking,
		StatusActing,
		StatusError,
		StatusStopped,
	}
}
