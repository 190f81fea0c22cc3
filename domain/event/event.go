// Package event provides domain types and interfaces for the agent's named
// event stream.
package event

import (
	"encoding/json"
	"time"
)

// Event is one occurrence on an agent's event stream.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// AgentID is the ID of the agent this event belongs to.
	AgentID string `json:"agent_id"`

	// Type classifies the event.
	Type Type `json:"type"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Payload contains the event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Sequence is the ordering number within the agent's event stream.
	Sequence uint64 `json:"sequence"`
}

// New creates an event with the given type and payload.
func New(agentID string, eventType Type, payload any) (Event, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		data = b
	}

	return Event{
		AgentID:   agentID,
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   data,
	}, nil
}

// UnmarshalPayload decodes the event payload into the given value.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}
