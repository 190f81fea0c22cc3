package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/event"
	"github.com/felixgeelhaar/autopilot/domain/memory"
	domainmetrics "github.com/felixgeelhaar/autopilot/domain/metrics"
	"github.com/felixgeelhaar/autopilot/domain/tool"
	"github.com/felixgeelhaar/autopilot/infrastructure/logging"
)

// AgentID returns the agent's identifier.
func (s *Scheduler) AgentID() string {
	return s.agentID
}

// Name returns the agent's human-readable name.
func (s *Scheduler) Name() string {
	return s.name
}

// AddGoal queues a goal for planning. Goals may be added before Start or
// while the loop is running; the next thinking phase picks them up.
func (s *Scheduler) AddGoal(g agent.Goal) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = agent.GoalPending
	}

	s.stateMu.Lock()
	s.state.AddGoal(g)
	s.stateMu.Unlock()

	logging.Info().
		Add(logging.AgentID(s.agentID)).
		Add(logging.GoalID(g.ID)).
		Add(logging.Str("goal_type", string(g.Type))).
		Msg("goal added")
}

// RegisterTool adds a tool to the registry. Tools not on the guardrail
// allowlist are rejected synchronously.
func (s *Scheduler) RegisterTool(t tool.Tool) error {
	if !s.guardrails.ToolAllowed(t.Name()) {
		return fmt.Errorf("%w: %s", agent.ErrToolNotAllowed, t.Name())
	}
	if err := s.registry.Register(t); err != nil {
		return err
	}

	logging.Info().
		Add(logging.AgentID(s.agentID)).
		Add(logging.ToolName(t.Name())).
		Msg("tool registered")
	return nil
}

// SendMessage initiates a conversation with another party. It fails
// synchronously when the conversation capability is disabled. The message is
// emitted on the event stream and journaled to episodic memory.
func (s *Scheduler) SendMessage(ctx context.Context, to, content string) (agent.Message, error) {
	if !s.capabilities.InitiateConversations {
		return agent.Message{}, agent.ErrConversationsNotAllowed
	}

	msg := agent.NewMessage(uuid.NewString(), s.agentID, to, content)
	msg.Timestamp = s.clock.Now()

	s.emit(ctx, event.TypeMessageSent, MessageSentPayload{Message: msg})
	s.rememberMessage(ctx, msg)

	logging.Debug().
		Add(logging.AgentID(s.agentID)).
		Add(logging.Str("to", to)).
		Msg("message sent")
	return msg, nil
}

// ReceiveMessage delivers an inbound message to the agent's inbox and
// journals it to episodic memory. Receiving is always allowed, regardless of
// the conversation capability.
func (s *Scheduler) ReceiveMessage(ctx context.Context, msg agent.Message) {
	s.stateMu.Lock()
	s.inbox = append(s.inbox, msg)
	s.stateMu.Unlock()

	s.rememberMessage(ctx, msg)

	logging.Debug().
		Add(logging.AgentID(s.agentID)).
		Add(logging.Str("from", msg.From)).
		Msg("message received")
}

// Inbox returns a copy of the received messages.
func (s *Scheduler) Inbox() []agent.Message {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	out := make([]agent.Message, len(s.inbox))
	copy(out, s.inbox)
	return out
}

// State returns a defensive snapshot of the agent state.
func (s *Scheduler) State() agent.State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.Snapshot()
}

// Metrics returns the current performance figures.
func (s *Scheduler) Metrics() domainmetrics.Snapshot {
	return s.perf.Snapshot(s.clock.Now())
}

// rememberMessage journals a message exchange. Fire and forget: a failed
// store never fails the operation.
func (s *Scheduler) rememberMessage(ctx context.Context, msg agent.Message) {
	_ = s.memory.Store(ctx, memory.Entry{
		AgentID:    s.agentID,
		Type:       memory.EntryMessage,
		Content:    fmt.Sprintf("%s -> %s: %s", msg.From, msg.To, msg.Content),
		Importance: 0.5,
		CreatedAt:  s.clock.Now(),
	})
}
