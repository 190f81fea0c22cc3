package logging

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/plan"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for the agent control loop.

// AgentID adds an agent ID field.
func AgentID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("agent_id", id)
	}
}

// Cycle adds a cycle counter field.
func Cycle(n uint64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("cycle", int64(n))
	}
}

// Status adds an agent status field.
func Status(s agent.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("status", string(s))
	}
}

// FromStatus adds a from_status field for transitions.
func FromStatus(s agent.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_status", string(s))
	}
}

// ToStatus adds a to_status field for transitions.
func ToStatus(s agent.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_status", string(s))
	}
}

// GoalID adds a goal ID field.
func GoalID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("goal_id", id)
	}
}

// PlanID adds a plan ID field.
func PlanID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("plan_id", id)
	}
}

// StepID adds a step ID field.
func StepID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("step_id", id)
	}
}

// PlanStatus adds a plan status field.
func PlanStatus(s plan.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("plan_status", string(s))
	}
}

// Feasibility adds a plan feasibility field.
func Feasibility(f float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("feasibility", strconv.FormatFloat(f, 'f', 2, 64))
	}
}

// ToolName adds a tool name field.
func ToolName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", name)
	}
}

// Action adds an action field.
func Action(action string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", action)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// ErrorCount adds an error counter field.
func ErrorCount(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("error_count", n)
	}
}

// Violation adds a guardrail violation field.
func Violation(v string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("violation", v)
	}
}

// MemoryMB adds a heap usage field in whole megabytes.
func MemoryMB(mb float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("memory_mb", int64(mb))
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Operation adds an operation field.
func Operation(op string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operation", op)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
