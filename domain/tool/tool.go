// Package tool provides the domain model for allow-listed agent actions.
package tool

import (
	"context"
	"encoding/json"
	"time"
)

// Handler is the function a tool runs when executed.
type Handler func(ctx context.Context, input json.RawMessage) (Result, error)

// Tool is a registered capability the agent can invoke during the act phase.
type Tool struct {
	name        string
	description string
	idempotent  bool
	handler     Handler
}

// Result is the outcome of a tool execution.
type Result struct {
	Output   json.RawMessage `json:"output"`
	Duration time.Duration   `json:"duration"`
}

// New creates a tool with the given name and handler.
func New(name, description string, handler Handler) (Tool, error) {
	if name == "" {
		return Tool{}, ErrInvalidName
	}
	if handler == nil {
		return Tool{}, ErrNilHandler
	}
	return Tool{
		name:        name,
		description: description,
		handler:     handler,
	}, nil
}

// MustNew creates a tool and panics on error. For static registrations.
func MustNew(name, description string, handler Handler) Tool {
	t, err := New(name, description, handler)
	if err != nil {
		panic(err)
	}
	return t
}

// WithIdempotent marks the tool safe for automatic retry.
func (t Tool) WithIdempotent() Tool {
	t.idempotent = true
	return t
}

// Name returns the tool's unique name.
func (t Tool) Name() string { return t.name }

// Description returns the tool's description.
func (t Tool) Description() string { return t.description }

// Idempotent reports whether repeated execution is safe.
func (t Tool) Idempotent() bool { return t.idempotent }

// Execute runs the tool handler.
func (t Tool) Execute(ctx context.Context, input json.RawMessage) (Result, error) {
	return t.handler(ctx, input)
}
