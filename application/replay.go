package application

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/event"
)

// History is an agent's run history reconstructed from the event journal.
type History struct {
	// AgentID is the agent the history belongs to.
	AgentID string

	// Runs counts agent:started events.
	Runs int

	// Timeline lists status changes in journal order.
	Timeline []StatusChange

	// Errors lists recovered cycle failures in journal order.
	Errors []RecordedError

	// CompletedGoals lists goal IDs in completion order.
	CompletedGoals []string

	// MessagesSent counts outbound messages.
	MessagesSent int

	// LastStatus is the status after the final status change, or empty when
	// the journal holds none.
	LastStatus agent.Status
}

// StatusChange is one replayed status transition.
type StatusChange struct {
	From      agent.Status
	To        agent.Status
	Reason    string
	Timestamp time.Time
}

// RecordedError is one replayed cycle failure.
type RecordedError struct {
	Message   string
	Timestamp time.Time
}

// Replay reconstructs an agent's history from its journaled event stream.
// The journal is authoritative: unknown event types are skipped, payloads
// that fail to decode abort the replay.
func Replay(ctx context.Context, store event.Store, agentID string) (*History, error) {
	events, err := store.List(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	h := &History{AgentID: agentID}
	for i := range events {
		evt := &events[i]
		switch evt.Type {
		case event.TypeAgentStarted:
			h.Runs++

		case event.TypeStatusChanged:
			var payload StatusChangedPayload
			if err := evt.UnmarshalPayload(&payload); err != nil {
				return nil, fmt.Errorf("decoding status change at sequence %d: %w", evt.Sequence, err)
			}
			h.Timeline = append(h.Timeline, StatusChange{
				From:      payload.From,
				To:        payload.To,
				Reason:    payload.Reason,
				Timestamp: evt.Timestamp,
			})
			h.LastStatus = payload.To

		case event.TypeError:
			var payload ErrorPayload
			if err := evt.UnmarshalPayload(&payload); err != nil {
				return nil, fmt.Errorf("decoding error event at sequence %d: %w", evt.Sequence, err)
			}
			h.Errors = append(h.Errors, RecordedError{
				Message:   payload.Message,
				Timestamp: evt.Timestamp,
			})

		case event.TypeGoalCompleted:
			var payload GoalCompletedPayload
			if err := evt.UnmarshalPayload(&payload); err != nil {
				return nil, fmt.Errorf("decoding goal completion at sequence %d: %w", evt.Sequence, err)
			}
			h.CompletedGoals = append(h.CompletedGoals, payload.GoalID)

		case event.TypeMessageSent:
			h.MessagesSent++
		}
	}
	return h, nil
}
