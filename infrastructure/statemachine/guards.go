package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/autopilot/domain/agent"
)

// allowedTransitions is the status transition table. Stopped has no outgoing
// transitions.
var allowedTransitions = map[agent.Status][]agent.Status{
	agent.StatusIdle:     {agent.StatusThinking, agent.StatusError, agent.StatusStopped},
	agent.StatusThinking: {agent.StatusActing, agent.StatusIdle, agent.StatusError, agent.StatusStopped},
	agent.StatusActing:   {agent.StatusIdle, agent.StatusError, agent.StatusStopped},
	agent.StatusError:    {agent.StatusThinking, agent.StatusIdle, agent.StatusStopped},
}

// CanTransition reports whether the status transition is permitted.
func CanTransition(from, to agent.Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// guardCanTransition checks the transition table before the machine moves.
// In statekit, guards receive the context by value. Since our context is
// *Context, the guard receives *Context directly.
func guardCanTransition(ctx *Context, event statekit.Event) bool {
	if ctx == nil || ctx.State == nil {
		return false
	}

	var to agent.Status
	if payload, ok := event.Payload.(TransitionPayload); ok {
		to = payload.ToStatus
	} else {
		to = statusFromEventType(event.Type)
	}

	return CanTransition(ctx.State.Status, to)
}

// statusFromEventType derives the target status from an event type.
func statusFromEventType(eventType statekit.EventType) agent.Status {
	switch eventType {
	case "THINK":
		return agent.StatusThinking
	case "ACT":
		return agent.StatusActing
	case "IDLE":
		return agent.StatusIdle
	case "ERROR":
		return agent.StatusError
	case "STOP":
		return agent.StatusStopped
	default:
		return agent.Status(eventType)
	}
}
