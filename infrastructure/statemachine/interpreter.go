package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/autopilot/domain/agent"
)

// TransitionPayload carries additional data with a transition event.
type TransitionPayload struct {
	ToStatus agent.Status
	Reason   string
}

// Interpreter wraps the statekit interpreter with control-loop specifics.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter for the lifecycle machine.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start initializes the interpreter and enters the initial state.
func (i *Interpreter) Start() {
	i.interp.Start()
	state := i.interp.State()
	i.ctx.State.Status = agent.Status(state.Value)
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Status returns the current status.
func (i *Interpreter) Status() agent.Status {
	state := i.interp.State()
	return agent.Status(state.Value)
}

// Transition attempts to transition to the target status.
func (i *Interpreter) Transition(to agent.Status, reason string) error {
	if !i.CanTransition(to) {
		return fmt.Errorf("transition from %s to %s not allowed", i.ctx.State.Status, to)
	}

	event := statekit.Event{
		Type: EventForTransition(to),
		Payload: TransitionPayload{
			ToStatus: to,
			Reason:   reason,
		},
	}
	i.interp.Send(event)

	newState := i.interp.State()
	i.ctx.State.Status = agent.Status(newState.Value)
	return nil
}

// CanTransition checks if a transition to the target status is possible.
func (i *Interpreter) CanTransition(to agent.Status) bool {
	return CanTransition(i.ctx.State.Status, to)
}

// IsTerminal returns true if the interpreter is in a terminal state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// Matches checks if the current state matches the given status.
func (i *Interpreter) Matches(status agent.Status) bool {
	return i.interp.Matches(statekit.StateID(status))
}
