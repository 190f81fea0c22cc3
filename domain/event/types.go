package event

// Type classifies events on the agent stream.
type Type string

// Named events emitted by the cycle scheduler. Subscribers receive each
// matching event at least once; the core never depends on subscriber
// behavior or presence.
const (
	TypeAgentStarted  Type = "agent:started"
	TypeAgentStopped  Type = "agent:stopped"
	TypeStatusChanged Type = "status:changed"
	TypeStatusUpdate  Type = "status:update" // Periodic summary, every 10th cycle
	TypeMessageSent   Type = "message:sent"
	TypeError         Type = "error"
	TypeGoalCompleted Type = "goal:completed"
)

// AllTypes returns every named event type.
func AllTypes() []Type {
	return []Type{
		TypeAgentStarted,
		TypeAgentStopped,
		TypeStatusChanged,
		TypeStatusUpdate,
		TypeMessageSent,
		TypeError,
		TypeGoalCompleted,
	}
}

// IsValid returns true if the type is a recognized named event.
func (t Type) IsValid() bool {
	for _, known := range AllTypes() {
		if t == known {
			return true
		}
	}
	return false
}
