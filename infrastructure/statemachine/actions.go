package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/autopilot/domain/agent"
)

// recordStatus applies the transition to the agent state aggregate.
// In statekit, actions receive a pointer to the context. Since our context is
// *Context, actions receive **Context.
func recordStatus(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).State == nil {
		return
	}

	c := *ctx

	var to agent.Status
	if payload, ok := event.Payload.(TransitionPayload); ok {
		to = payload.ToStatus
	} else {
		to = statusFromEventType(event.Type)
	}

	if to != "" {
		c.State.Status = to
	}
}
