package agent

import "errors"

// Domain errors for the agent aggregate.
var (
	// ErrToolNotAllowed is returned when a tool registration names a tool
	// outside the guardrail allow-list.
	ErrToolNotAllowed = errors.New("tool not in allowed tools list")

	// ErrConversationsNotAllowed is returned when the agent's capabilities
	// forbid initiating conversations.
	ErrConversationsNotAllowed = errors.New("agent capabilities do not allow initiating conversations")

	// ErrGoalNotFound is returned when a goal ID is unknown to the agent.
	ErrGoalNotFound = errors.New("goal not found")
)
