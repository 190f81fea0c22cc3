// Package api provides the public API for the autopilot runtime.
//
// autopilot is an autonomous agent runtime for Go built around a single
// cooperative control loop: each cycle the agent perceives its environment,
// plans against its goal queue, decides on the next actionable step, executes
// it through an allow-listed tool, and folds the outcome back into its state.
//
// # Quick Start
//
// Create an agent with one tool and one goal:
//
//	echo := api.MustNewTool("echo", "echoes input", func(ctx context.Context, input json.RawMessage) (api.ToolResult, error) {
//	    return api.ToolResult{Output: input}, nil
//	})
//
//	agent, _ := api.New(
//	    api.WithName("echo-agent"),
//	    api.WithTool(echo),
//	)
//	agent.AddGoal(api.NewGoal("", "echo", api.GoalImmediate, 1))
//
//	agent.Start(ctx)
//	defer agent.Stop()
//
// # Goals and Plans
//
// Goals are externally supplied units of intent. Immediate goals become a
// single-step plan; complex goals are decomposed into dependency-linked
// steps mined from contextual hints. The planning engine estimates duration,
// scores feasibility, and flags risks before the agent acts.
//
// # Guardrails
//
// Guardrails are soft limits checked before every cycle: memory ceiling,
// concurrent-operation ceiling, and an overall execution-time budget. A
// violated guardrail pauses the loop; it never aborts it.
package api

import (
	"context"
	"time"

	"github.com/felixgeelhaar/autopilot/application"
	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/event"
	"github.com/felixgeelhaar/autopilot/domain/memory"
	"github.com/felixgeelhaar/autopilot/domain/metrics"
	"github.com/felixgeelhaar/autopilot/domain/plan"
	"github.com/felixgeelhaar/autopilot/domain/planning"
	"github.com/felixgeelhaar/autopilot/domain/policy"
	"github.com/felixgeelhaar/autopilot/domain/tool"
	"github.com/felixgeelhaar/autopilot/infrastructure/clock"
	"github.com/felixgeelhaar/autopilot/infrastructure/resilience"
	"github.com/felixgeelhaar/autopilot/infrastructure/telemetry"
)

// Re-export core types for convenience.
type (
	// Goal is an externally supplied unit of intent.
	Goal = agent.Goal

	// GoalType distinguishes immediate from complex goals.
	GoalType = agent.GoalType

	// Message is a unit of conversation between agents.
	Message = agent.Message

	// Status is the agent's position in the cycle state machine.
	Status = agent.Status

	// Guardrails are the soft runtime limits.
	Guardrails = policy.Guardrails

	// Capabilities gate prioritization, adaptation, and conversations.
	Capabilities = policy.Capabilities

	// Tool is a registered capability the agent can invoke.
	Tool = tool.Tool

	// ToolResult is the outcome of a tool execution.
	ToolResult = tool.Result

	// ExecutionPlan is a validated, estimated plan for one goal.
	ExecutionPlan = plan.ExecutionPlan

	// Step is one unit of work inside a plan.
	Step = plan.Step

	// Event is one occurrence on the agent's event stream.
	Event = event.Event

	// MemoryEntry is one episodic memory record.
	MemoryEntry = memory.Entry

	// Snapshot holds the agent's performance figures.
	Snapshot = metrics.Snapshot

	// Decision is the outcome of one decide phase.
	Decision = application.Decision

	// Behavior supplies the perceive, execute, and learn phases.
	Behavior = application.Behavior

	// DecisionEngine selects the next actionable plan step.
	DecisionEngine = application.DecisionEngine
)

// Re-export goal constants.
const (
	GoalImmediate = agent.GoalImmediate
	GoalComplex   = agent.GoalComplex
)

// Re-export statuses.
const (
	StatusIdle     = agent.StatusIdle
	StatusThinking = agent.StatusThinking
	StatusActing   = agent.StatusActing
	StatusError    = agent.StatusError
	StatusStopped  = agent.StatusStopped
)

// Re-export event types.
const (
	EventAgentStarted  = event.TypeAgentStarted
	EventAgentStopped  = event.TypeAgentStopped
	EventStatusChanged = event.TypeStatusChanged
	EventStatusUpdate  = event.TypeStatusUpdate
	EventMessageSent   = event.TypeMessageSent
	EventError         = event.TypeError
	EventGoalCompleted = event.TypeGoalCompleted
)

// Re-export configuration errors surfaced to API callers.
var (
	// ErrToolNotAllowed is returned when registering a tool outside the
	// guardrail allow-list.
	ErrToolNotAllowed = agent.ErrToolNotAllowed

	// ErrConversationsNotAllowed is returned when the conversation
	// capability is disabled.
	ErrConversationsNotAllowed = agent.ErrConversationsNotAllowed

	// ErrNoGoals is returned by direct planning calls when nothing is
	// plannable.
	ErrNoGoals = planning.ErrNoGoals
)

// NewGoal creates a pending goal. An empty ID is assigned on AddGoal.
func NewGoal(id, description string, goalType GoalType, priority float64) Goal {
	return agent.NewGoal(id, description, goalType, priority)
}

// MustNewTool creates a tool and panics on error. For static registrations.
func MustNewTool(name, description string, handler tool.Handler) Tool {
	return tool.MustNew(name, description, handler)
}

// Agent is the public handle for one autonomous agent.
type Agent struct {
	sched *application.Scheduler
}

// New creates an agent with the provided options.
func New(opts ...Option) (*Agent, error) {
	config := &agentConfig{
		guardrails:   policy.DefaultGuardrails(),
		capabilities: policy.DefaultCapabilities(),
	}
	for _, opt := range opts {
		opt(config)
	}

	sched, err := application.NewScheduler(application.SchedulerConfig{
		AgentID:       config.id,
		Name:          config.name,
		CycleInterval: config.cycleInterval,
		MaxCycles:     config.maxCycles,
		Guardrails:    config.guardrails,
		Capabilities:  config.capabilities,
		Behavior:      config.behavior,
		Decision:      config.decision,
		PlanStore:     config.planStore,
		Registry:      config.registry,
		Executor:      config.executor,
		Memory:        config.memoryStore,
		Publisher:     config.publisher,
		Metrics:       config.metrics,
		Clock:         config.clock,
	})
	if err != nil {
		return nil, err
	}

	a := &Agent{sched: sched}
	for _, t := range config.tools {
		if err := a.RegisterTool(t); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Start begins the autonomy loop. Idempotent while running.
func (a *Agent) Start(ctx context.Context) {
	a.sched.Start(ctx)
}

// Stop requests a graceful stop and blocks until the loop exits.
func (a *Agent) Stop() {
	a.sched.Stop()
}

// IsRunning reports whether the loop is active.
func (a *Agent) IsRunning() bool {
	return a.sched.IsRunning()
}

// ID returns the agent identifier.
func (a *Agent) ID() string {
	return a.sched.AgentID()
}

// AddGoal queues a goal for planning.
func (a *Agent) AddGoal(g Goal) {
	a.sched.AddGoal(g)
}

// RegisterTool adds an allow-listed tool.
func (a *Agent) RegisterTool(t Tool) error {
	return a.sched.RegisterTool(t)
}

// SendMessage initiates a conversation with another party.
func (a *Agent) SendMessage(ctx context.Context, to, content string) (Message, error) {
	return a.sched.SendMessage(ctx, to, content)
}

// ReceiveMessage delivers an inbound message to the agent.
func (a *Agent) ReceiveMessage(ctx context.Context, msg Message) {
	a.sched.ReceiveMessage(ctx, msg)
}

// State returns a defensive snapshot of the agent state.
func (a *Agent) State() agent.State {
	return a.sched.State()
}

// Metrics returns the current performance figures.
func (a *Agent) Metrics() Snapshot {
	return a.sched.Metrics()
}

// Planner exposes the planning engine for direct planning calls.
func (a *Agent) Planner() *planning.Engine {
	return a.sched.Planner()
}

// agentConfig holds configuration for agent creation.
type agentConfig struct {
	id            string
	name          string
	cycleInterval time.Duration
	maxCycles     uint64
	guardrails    policy.Guardrails
	capabilities  policy.Capabilities
	behavior      application.Behavior
	decision      application.DecisionEngine
	planStore     plan.Store
	registry      tool.Registry
	executor      *resilience.Executor
	memoryStore   memory.Store
	publisher     event.Publisher
	metrics       telemetry.Metrics
	clock         clock.Clock
	tools         []Tool
}

// Option configures the Agent.
type Option func(*agentConfig)

// WithID sets the agent identifier.
func WithID(id string) Option {
	return func(c *agentConfig) { c.id = id }
}

// WithName sets the human-readable agent name.
func WithName(name string) Option {
	return func(c *agentConfig) { c.name = name }
}

// WithCycleInterval sets the pause between cycles.
func WithCycleInterval(d time.Duration) Option {
	return func(c *agentConfig) { c.cycleInterval = d }
}

// WithMaxCycles stops the loop after n cycles (0 = unlimited).
func WithMaxCycles(n uint64) Option {
	return func(c *agentConfig) { c.maxCycles = n }
}

// WithGuardrails sets the runtime limits.
func WithGuardrails(g Guardrails) Option {
	return func(c *agentConfig) { c.guardrails = g }
}

// WithCapabilities sets the capability toggles.
func WithCapabilities(capabilities Capabilities) Option {
	return func(c *agentConfig) { c.capabilities = capabilities }
}

// WithBehavior sets the perceive, execute, and learn phases.
func WithBehavior(b Behavior) Option {
	return func(c *agentConfig) { c.behavior = b }
}

// WithDecisionEngine sets the step selection strategy.
func WithDecisionEngine(d DecisionEngine) Option {
	return func(c *agentConfig) { c.decision = d }
}

// WithTool registers a tool at construction. Can be repeated.
func WithTool(t Tool) Option {
	return func(c *agentConfig) { c.tools = append(c.tools, t) }
}

// WithRegistry sets the tool registry.
func WithRegistry(r tool.Registry) Option {
	return func(c *agentConfig) { c.registry = r }
}

// WithExecutor sets the resilient tool executor.
func WithExecutor(e *resilience.Executor) Option {
	return func(c *agentConfig) { c.executor = e }
}

// WithPlanStore sets the active-plan store.
func WithPlanStore(s plan.Store) Option {
	return func(c *agentConfig) { c.planStore = s }
}

// WithMemoryStore sets the episodic memory store.
func WithMemoryStore(s memory.Store) Option {
	return func(c *agentConfig) { c.memoryStore = s }
}

// WithPublisher sets the event publisher.
func WithPublisher(p event.Publisher) Option {
	return func(c *agentConfig) { c.publisher = p }
}

// WithMetrics sets the telemetry sink.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *agentConfig) { c.metrics = m }
}

// WithClock sets the time source.
func WithClock(clk clock.Clock) Option {
	return func(c *agentConfig) { c.clock = clk }
}
