// Package statemachine provides the statekit integration for the agent
// control loop lifecycle.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/autopilot/domain/agent"
)

// Context carries the agent state aggregate through the state machine.
type Context struct {
	State *agent.State
}

// NewContext creates a new machine context.
func NewContext(state *agent.State) *Context {
	return &Context{State: state}
}

// State IDs as StateID type for statekit.
const (
	stateIdle     statekit.StateID = statekit.StateID(agent.StatusIdle)
	stateThinking statekit.StateID = statekit.StateID(agent.StatusThinking)
	stateActing   statekit.StateID = statekit.StateID(agent.StatusActing)
	stateError    statekit.StateID = statekit.StateID(agent.StatusError)
	stateStopped  statekit.StateID = statekit.StateID(agent.StatusStopped)
)

// NewLifecycleMachine creates the canonical control-loop statechart. The
// normal cycle is idle, thinking, acting, idle. Thinking may short-circuit
// back to idle when there is nothing to plan, any running state may fall
// into error, and stopped is terminal.
func NewLifecycleMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("agent-lifecycle").
		WithInitial(stateIdle).
		WithContext(&Context{}).
		WithAction("recordStatus", recordStatus).
		WithGuard("canTransition", guardCanTransition).
		State(stateIdle).
			On("THINK").Target(stateThinking).Guard("canTransition").Do("recordStatus").
			On("ERROR").Target(stateError).Do("recordStatus").
			On("STOP").Target(stateStopped).Do("recordStatus").
			Done().
		State(stateThinking).
			On("ACT").Target(stateActing).Guard("canTransition").Do("recordStatus").
			On("IDLE").Target(stateIdle).Do("recordStatus").
			On("ERROR").Target(stateError).Do("recordStatus").
			On("STOP").Target(stateStopped).Do("recordStatus").
			Done().
		State(stateActing).
			On("IDLE").Target(stateIdle).Do("recordStatus").
			On("ERROR").Target(stateError).Do("recordStatus").
			On("STOP").Target(stateStopped).Do("recordStatus").
			Done().
		State(stateError).
			On("THINK").Target(stateThinking).Guard("canTransition").Do("recordStatus").
			On("IDLE").Target(stateIdle).Do("recordStatus").
			On("STOP").Target(stateStopped).Do("recordStatus").
			Done().
		State(stateStopped).
			Final().
			Done().
		Build()
}

// EventForTransition returns the event type that drives a transition to the
// given status.
func EventForTransition(to agent.Status) statekit.EventType {
	switch to {
	case agent.StatusThinking:
		return "THINK"
	case agent.StatusActing:
		return "ACT"
	case agent.StatusIdle:
		return "IDLE"
	case agent.StatusError:
		return "ERROR"
	case agent.StatusStopped:
		return "STOP"
	default:
		return statekit.EventType(to)
	}
}

// StatusFromMachine converts the machine state ID to a domain Status.
func StatusFromMachine(stateID statekit.StateID) agent.Status {
	return agent.Status(stateID)
}
