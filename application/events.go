package application

import (
	"context"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/event"
	domainmetrics "github.com/felixgeelhaar/autopilot/domain/metrics"
	"github.com/felixgeelhaar/autopilot/infrastructure/logging"
)

// AgentLifecyclePayload accompanies agent:started and agent:stopped.
type AgentLifecyclePayload struct {
	Name string `json:"name"`
}

// StatusChangedPayload accompanies status:changed.
type StatusChangedPayload struct {
	From   agent.Status `json:"from,omitempty"`
	To     agent.Status `json:"to"`
	Reason string       `json:"reason,omitempty"`
}

// StatusUpdatePayload is the periodic summary emitted every tenth cycle.
type StatusUpdatePayload struct {
	Status          agent.Status           `json:"status"`
	Cycle           uint64                 `json:"cycle"`
	Goals           int                    `json:"goals"`
	InProgressGoals int                    `json:"in_progress_goals"`
	ErrorCount      int                    `json:"error_count"`
	Metrics         domainmetrics.Snapshot `json:"metrics"`
}

// MessageSentPayload accompanies message:sent.
type MessageSentPayload struct {
	Message agent.Message `json:"message"`
}

// ErrorPayload accompanies error events.
type ErrorPayload struct {
	Message string `json:"message"`
}

// GoalCompletedPayload accompanies goal:completed.
type GoalCompletedPayload struct {
	GoalID string `json:"goal_id"`
	PlanID string `json:"plan_id"`
}

// emit publishes one named event. Event delivery is best effort from the
// loop's perspective: a failed publish is logged and never fails a cycle.
func (s *Scheduler) emit(ctx context.Context, eventType event.Type, payload any) {
	evt, err := event.New(s.agentID, eventType, payload)
	if err != nil {
		logging.Warn().
			Add(logging.AgentID(s.agentID)).
			Add(logging.Str("event_type", string(eventType))).
			Add(logging.ErrorField(err)).
			Msg("event encoding failed")
		return
	}
	evt.Timestamp = s.clock.Now()

	if err := s.publisher.Publish(ctx, evt); err != nil {
		logging.Warn().
			Add(logging.AgentID(s.agentID)).
			Add(logging.Str("event_type", string(eventType))).
			Add(logging.ErrorField(err)).
			Msg("event publish failed")
	}
}

// emitStatusUpdate publishes the periodic status summary.
func (s *Scheduler) emitStatusUpdate(ctx context.Context, cycle uint64) {
	snapshot := s.State()
	s.emit(ctx, event.TypeStatusUpdate, StatusUpdatePayload{
		Status:          snapshot.Status,
		Cycle:           cycle,
		Goals:           len(snapshot.Goals),
		InProgressGoals: snapshot.InProgressGoals(),
		ErrorCount:      snapshot.ErrorCount,
		Metrics:         s.perf.Snapshot(s.clock.Now()),
	})
}
