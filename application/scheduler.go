// Package application provides the application layer for the autopilot
// runtime: the autonomous cycle scheduler that drives one agent's
// perceive, plan, decide, execute, learn loop.
package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/statekit"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/event"
	domainmetrics "github.com/felixgeelhaar/autopilot/domain/metrics"
	"github.com/felixgeelhaar/autopilot/domain/memory"
	"github.com/felixgeelhaar/autopilot/domain/plan"
	"github.com/felixgeelhaar/autopilot/domain/planning"
	"github.com/felixgeelhaar/autopilot/domain/policy"
	"github.com/felixgeelhaar/autopilot/domain/tool"
	"github.com/felixgeelhaar/autopilot/infrastructure/clock"
	infraevent "github.com/felixgeelhaar/autopilot/infrastructure/event"
	"github.com/felixgeelhaar/autopilot/infrastructure/logging"
	"github.com/felixgeelhaar/autopilot/infrastructure/resilience"
	"github.com/felixgeelhaar/autopilot/infrastructure/statemachine"
	"github.com/felixgeelhaar/autopilot/infrastructure/telemetry"
	memstore "github.com/felixgeelhaar/autopilot/infrastructure/storage/memory"
)

const (
	// errorBackoff is the fixed pause after a caught cycle failure.
	errorBackoff = 5000 * time.Millisecond

	// guardrailPause is the fixed pause after a guardrail violation.
	guardrailPause = 5000 * time.Millisecond

	// statusUpdateEvery bounds event volume: a status summary is emitted
	// once per this many cycles.
	statusUpdateEvery = 10

	// errorImportance is the episodic-memory importance of cycle failures.
	errorImportance = 0.8
)

// Scheduler drives one agent's autonomy loop. Each instance owns exactly one
// cooperative loop; the iteration body is fully sequential with no internal
// fan-out, and cycle N+1 never begins before cycle N has completed or been
// caught as an error.
type Scheduler struct {
	agentID string
	name    string

	cycleInterval time.Duration
	maxCycles     uint64

	state    *agent.State
	stateMu  sync.RWMutex
	machine  *statekit.MachineConfig[*statemachine.Context]
	planner  *planning.Engine
	decision DecisionEngine
	behavior Behavior

	registry tool.Registry
	executor *resilience.Executor
	monitor  *policy.Monitor

	guardrails   policy.Guardrails
	capabilities policy.Capabilities

	memory    memory.Store
	publisher event.Publisher
	perf      *domainmetrics.Performance
	metrics   telemetry.Metrics
	clock     clock.Clock

	inbox []agent.Message

	runMu     sync.Mutex
	running   bool
	startTime time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	interp    *statemachine.Interpreter
}

// SchedulerConfig contains configuration for the scheduler.
type SchedulerConfig struct {
	// AgentID identifies the agent. A random ID is assigned when empty.
	AgentID string

	// Name is the human-readable agent name.
	Name string

	// CycleInterval is the inter-cycle rate-limit sleep. Defaults to 1s.
	CycleInterval time.Duration

	// MaxCycles stops the loop after this many cycles (0 = unlimited).
	MaxCycles uint64

	// Guardrails are the soft runtime limits.
	Guardrails policy.Guardrails

	// Capabilities gate prioritization, adaptation, and conversations.
	Capabilities policy.Capabilities

	// Behavior supplies the perceive, execute, and learn phases.
	Behavior Behavior

	// Decision selects the next actionable plan step.
	Decision DecisionEngine

	// PlanStore holds active plans. Defaults to an in-memory store.
	PlanStore plan.Store

	// Registry holds registered tools. Defaults to an in-memory registry.
	Registry tool.Registry

	// Executor runs tools with resilience patterns applied.
	Executor *resilience.Executor

	// Memory is the episodic store. Defaults to an in-memory store.
	Memory memory.Store

	// Publisher emits the named event stream. Defaults to an event bus.
	Publisher event.Publisher

	// Metrics receives telemetry. Defaults to the no-op provider.
	Metrics telemetry.Metrics

	// Clock is the time source. Defaults to the wall clock.
	Clock clock.Clock

	// MemorySampler overrides the guardrail memory sampler (tests).
	MemorySampler policy.MemorySampler
}

// NewScheduler creates a scheduler with the given configuration.
func NewScheduler(config SchedulerConfig) (*Scheduler, error) {
	if config.AgentID == "" {
		config.AgentID = uuid.NewString()
	}
	if config.Name == "" {
		config.Name = "autopilot"
	}
	if config.CycleInterval <= 0 {
		config.CycleInterval = time.Second
	}
	if config.Behavior == nil {
		config.Behavior = NoopBehavior{}
	}
	if config.Decision == nil {
		config.Decision = NextStepDecision{}
	}
	if config.PlanStore == nil {
		config.PlanStore = memstore.NewPlanStore()
	}
	if config.Registry == nil {
		config.Registry = memstore.NewToolRegistry()
	}
	if config.Executor == nil {
		config.Executor = resilience.NewDefaultExecutor()
	}
	if config.Memory == nil {
		config.Memory = memstore.NewMemoryStore()
	}
	if config.Publisher == nil {
		config.Publisher = infraevent.NewBus()
	}
	if config.Metrics == nil {
		config.Metrics = &telemetry.NoopMetricsProvider{}
	}
	if config.Clock == nil {
		config.Clock = clock.NewSystem()
	}

	planner, err := planning.NewEngine(planning.EngineConfig{
		Store:        config.PlanStore,
		Capabilities: config.Capabilities,
		Guardrails:   config.Guardrails,
		Now:          config.Clock.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating planning engine: %w", err)
	}

	machine, err := statemachine.NewLifecycleMachine()
	if err != nil {
		return nil, fmt.Errorf("creating lifecycle machine: %w", err)
	}

	monitor := policy.NewMonitor(config.Guardrails)
	if config.MemorySampler != nil {
		monitor = monitor.WithSampler(config.MemorySampler)
	}

	return &Scheduler{
		agentID:       config.AgentID,
		name:          config.Name,
		cycleInterval: config.CycleInterval,
		maxCycles:     config.MaxCycles,
		state:         agent.NewState(config.AgentID, config.Name),
		machine:       machine,
		planner:       planner,
		decision:      config.Decision,
		behavior:      config.Behavior,
		registry:      config.Registry,
		executor:      config.Executor,
		monitor:       monitor,
		guardrails:    config.Guardrails,
		capabilities:  config.Capabilities,
		memory:        config.Memory,
		publisher:     config.Publisher,
		perf:          domainmetrics.NewPerformance(),
		metrics:       config.Metrics,
		clock:         config.Clock,
	}, nil
}

// Planner exposes the planning engine for direct planning-API calls. Errors
// from these calls propagate to the direct caller; the scheduler's own
// iteration boundary does not cover them.
func (s *Scheduler) Planner() *planning.Engine {
	return s.planner
}

// Start begins the autonomy loop. It is idempotent: a second call while the
// loop is already running logs a warning and returns without effect. The
// loop executes asynchronously relative to the caller and never propagates
// cycle failures back through Start.
func (s *Scheduler) Start(ctx context.Context) {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		logging.Warn().
			Add(logging.AgentID(s.agentID)).
			Msg("agent already running")
		return
	}
	s.running = true
	s.startTime = s.clock.Now()

	// A fresh interpreter per run lets a stopped agent restart from idle.
	interp := statemachine.NewInterpreter(s.machine, statemachine.NewContext(s.state))
	interp.Start()
	s.interp = interp

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.runMu.Unlock()

	s.perf.Start(s.startTime)
	s.metrics.IncrementActiveAgents(ctx)
	s.emit(ctx, event.TypeAgentStarted, AgentLifecyclePayload{Name: s.name})

	logging.Info().
		Add(logging.AgentID(s.agentID)).
		Add(logging.Status(agent.StatusIdle)).
		Msg("agent started")

	s.wg.Add(1)
	go s.runLoop(ctx)
}

// Stop requests a graceful stop. Cooperative only: the in-flight iteration
// completes its current phase before the flag is observed. Stop blocks until
// the loop has exited.
func (s *Scheduler) Stop() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.runMu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.running
}

// runLoop is the cooperative cycle loop. Exactly one catch-all boundary
// exists here, at the top of each iteration; nothing beneath it can crash
// the host process.
func (s *Scheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()
	defer s.shutdown()

	var cycle uint64
	for {
		if !s.IsRunning() || ctx.Err() != nil {
			return
		}

		// Execution-time budget. Graceful stop, not an error.
		if s.guardrails.MaxExecutionTime > 0 && s.clock.Now().Sub(s.startTime) > s.guardrails.MaxExecutionTime {
			logging.Info().
				Add(logging.AgentID(s.agentID)).
				Add(logging.Duration(s.clock.Now().Sub(s.startTime))).
				Msg("execution time budget elapsed, stopping")
			return
		}

		if s.maxCycles > 0 && cycle >= s.maxCycles {
			logging.Info().
				Add(logging.AgentID(s.agentID)).
				Add(logging.Cycle(cycle)).
				Msg("cycle budget reached, stopping")
			return
		}

		// Guardrails pause and recheck rather than aborting.
		if ok, violation := s.monitor.Check(s.inProgressGoals()); !ok {
			logging.Warn().
				Add(logging.AgentID(s.agentID)).
				Add(logging.Violation(string(violation))).
				Msg("guardrail violation, pausing")
			s.metrics.RecordGuardrailViolation(ctx, s.agentID, string(violation))
			s.clock.Sleep(ctx, guardrailPause)
			continue
		}

		cycleStart := s.clock.Now()
		executed, err := s.safeCycle(ctx, cycle)
		cycle++

		cycleTime := s.clock.Now().Sub(cycleStart)
		s.perf.RecordCycle(cycleTime, executed)
		s.metrics.RecordCycle(ctx, s.agentID, executed, cycleTime)

		// A failure caused by run-context cancellation is the stop request
		// surfacing mid-phase, not a cycle error.
		if err != nil && ctx.Err() == nil {
			s.recoverFromError(ctx, err)
		}

		if cycle%statusUpdateEvery == 0 {
			s.emitStatusUpdate(ctx, cycle)
		}

		s.clock.Sleep(ctx, s.cycleInterval)
	}
}

// safeCycle runs one iteration body, converting panics into errors so the
// iteration boundary catches every failure exactly once.
func (s *Scheduler) safeCycle(ctx context.Context, cycle uint64) (executed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			executed = false
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()
	return s.runCycle(ctx, cycle)
}

// runCycle is the sequential iteration body:
// perceive, merge, plan, decide, execute, learn.
func (s *Scheduler) runCycle(ctx context.Context, cycle uint64) (bool, error) {
	if err := s.transition(ctx, agent.StatusThinking, "cycle start"); err != nil {
		return false, err
	}

	// Perceive.
	perception, err := s.behavior.Perceive(ctx, s.State())
	if err != nil {
		return false, fmt.Errorf("perceive: %w", err)
	}
	s.mergeContext(perception)

	// Plan. An empty goal queue is a quiet cycle, not a failure.
	planStart := s.clock.Now()
	p, err := s.planner.CreatePlan(s.planningContext())
	if errors.Is(err, planning.ErrNoGoals) {
		return false, s.transition(ctx, agent.StatusIdle, "no plannable goals")
	}
	if err != nil {
		return false, fmt.Errorf("plan: %w", err)
	}
	s.metrics.RecordPlanningDuration(ctx, s.agentID, s.clock.Now().Sub(planStart))

	logging.Debug().
		Add(logging.AgentID(s.agentID)).
		Add(logging.Cycle(cycle)).
		Add(logging.PlanID(p.ID)).
		Add(logging.Feasibility(p.Feasibility)).
		Msg("plan created")

	// Decide.
	decision, err := s.decision.Decide(ctx, p)
	if err != nil {
		return false, fmt.Errorf("decide: %w", err)
	}
	if !decision.HasSelection() {
		return false, s.transition(ctx, agent.StatusIdle, "no actionable option")
	}

	// Execute and learn.
	if err := s.transition(ctx, agent.StatusActing, "option selected"); err != nil {
		return false, err
	}
	outcome, err := s.executeDecision(ctx, decision)
	if err != nil {
		return false, fmt.Errorf("execute: %w", err)
	}
	if err := s.behavior.Learn(ctx, s.State(), outcome); err != nil {
		return false, fmt.Errorf("learn: %w", err)
	}

	s.checkGoalCompletion(ctx, decision.PlanID)

	return true, s.transition(ctx, agent.StatusIdle, "cycle complete")
}

// executeDecision marks the selected step in progress, routes execution
// through the tool executor or the behavior, and records the step outcome.
func (s *Scheduler) executeDecision(ctx context.Context, decision Decision) (any, error) {
	stepID := decision.SelectedStep.ID

	if _, err := s.planner.UpdatePlanProgress(decision.PlanID, stepID, plan.StepInProgress); err != nil {
		return nil, err
	}
	s.markGoalInProgress(decision.PlanID)

	// An unset tool name falls back to the step action: actions that match a
	// registered tool route through the resilient executor.
	toolName := decision.ToolName
	if toolName == "" {
		toolName = decision.SelectedStep.Action
	}

	var outcome any
	var execErr error

	if t, ok := s.registry.Get(toolName); ok {
		start := s.clock.Now()
		result, err := s.executor.Execute(ctx, t, decision.Input)
		s.metrics.RecordToolExecution(ctx, toolName, err == nil, s.clock.Now().Sub(start))
		outcome, execErr = result.Output, err
	} else {
		outcome, execErr = s.behavior.Execute(ctx, decision)
	}

	stepStatus := plan.StepCompleted
	if execErr != nil {
		stepStatus = plan.StepFailed
	}
	if _, err := s.planner.UpdatePlanProgress(decision.PlanID, stepID, stepStatus); err != nil {
		return nil, err
	}

	if execErr != nil {
		return nil, execErr
	}
	return outcome, nil
}

// checkGoalCompletion marks the plan's goal completed once every step has
// completed, and emits goal:completed.
func (s *Scheduler) checkGoalCompletion(ctx context.Context, planID string) {
	p, ok := s.planner.Plan(planID)
	if !ok || p.Status != plan.StatusCompleted {
		return
	}

	s.stateMu.Lock()
	g := s.state.Goal(p.GoalID)
	if g != nil && !g.Status.IsTerminal() {
		g.Status = agent.GoalCompleted
	}
	s.stateMu.Unlock()
	if g == nil {
		return
	}

	s.metrics.RecordGoalCompleted(ctx, s.agentID)
	s.emit(ctx, event.TypeGoalCompleted, GoalCompletedPayload{
		GoalID: p.GoalID,
		PlanID: p.ID,
	})

	logging.Info().
		Add(logging.AgentID(s.agentID)).
		Add(logging.GoalID(p.GoalID)).
		Add(logging.PlanID(p.ID)).
		Msg("goal completed")
}

// recoverFromError is the iteration boundary's catch handler: log, count,
// persist to episodic memory, surface an error status and event, back off,
// and return to idle. Errors are always recovered locally.
func (s *Scheduler) recoverFromError(ctx context.Context, cycleErr error) {
	s.stateMu.Lock()
	s.state.RecordError(s.clock.Now())
	errCount := s.state.ErrorCount
	s.stateMu.Unlock()

	logging.Error().
		Add(logging.AgentID(s.agentID)).
		Add(logging.ErrorField(cycleErr)).
		Add(logging.ErrorCount(errCount)).
		Msg("cycle failed")

	// Fire-and-forget persistence: a failed store never fails recovery.
	_ = s.memory.Store(ctx, memory.Entry{
		AgentID:    s.agentID,
		Type:       memory.EntryError,
		Content:    cycleErr.Error(),
		Importance: errorImportance,
		CreatedAt:  s.clock.Now(),
	})

	if err := s.transition(ctx, agent.StatusError, cycleErr.Error()); err != nil {
		logging.Warn().
			Add(logging.AgentID(s.agentID)).
			Add(logging.ErrorField(err)).
			Msg("error transition rejected")
	}
	s.metrics.RecordError(ctx, "cycle", map[string]string{"agent.id": s.agentID})
	s.emit(ctx, event.TypeError, ErrorPayload{Message: cycleErr.Error()})

	s.clock.Sleep(ctx, errorBackoff)

	if err := s.transition(ctx, agent.StatusIdle, "recovered"); err != nil {
		logging.Warn().
			Add(logging.AgentID(s.agentID)).
			Add(logging.ErrorField(err)).
			Msg("recovery transition rejected")
	}
}

// shutdown finalizes a stopped loop: terminal transition, stop event, and
// gauge bookkeeping.
func (s *Scheduler) shutdown() {
	s.runMu.Lock()
	s.running = false
	interp := s.interp
	s.runMu.Unlock()

	ctx := context.Background()
	if interp != nil {
		s.stateMu.Lock()
		err := interp.Transition(agent.StatusStopped, "stop requested")
		s.stateMu.Unlock()
		if err == nil {
			s.emit(ctx, event.TypeStatusChanged, StatusChangedPayload{
				To:     agent.StatusStopped,
				Reason: "stop requested",
			})
		}
		interp.Stop()
	}

	s.metrics.DecrementActiveAgents(ctx)
	s.emit(ctx, event.TypeAgentStopped, AgentLifecyclePayload{Name: s.name})

	logging.Info().
		Add(logging.AgentID(s.agentID)).
		Add(logging.Status(agent.StatusStopped)).
		Msg("agent stopped")
}

// transition moves the lifecycle machine and emits status:changed.
func (s *Scheduler) transition(ctx context.Context, to agent.Status, reason string) error {
	s.runMu.Lock()
	interp := s.interp
	s.runMu.Unlock()
	if interp == nil {
		return errors.New("scheduler not started")
	}

	// The interpreter writes Status into the state aggregate, so the state
	// lock covers the transition.
	s.stateMu.Lock()
	from := interp.Status()
	if from == to {
		s.stateMu.Unlock()
		return nil
	}
	err := interp.Transition(to, reason)
	s.stateMu.Unlock()
	if err != nil {
		return err
	}

	s.metrics.RecordStateTransition(ctx, s.agentID, from.String(), to.String())
	s.emit(ctx, event.TypeStatusChanged, StatusChangedPayload{
		From:   from,
		To:     to,
		Reason: reason,
	})
	return nil
}

// mergeContext folds a perception result into the agent context with a fresh
// timestamp.
func (s *Scheduler) mergeContext(perception any) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.MergeContext(perception, s.clock.Now())
}

// planningContext assembles the planning engine's view from the agent state.
// Hints and resources come from the context blob under well-known keys.
func (s *Scheduler) planningContext() planning.Context {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	goals := make([]agent.Goal, len(s.state.Goals))
	copy(goals, s.state.Goals)

	return planning.Context{
		Goals:     goals,
		Hints:     stringsFromContext(s.state.Context, "hints"),
		Resources: stringsFromContext(s.state.Context, "resources"),
	}
}

func (s *Scheduler) inProgressGoals() int {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.InProgressGoals()
}

// markGoalInProgress flips the planned goal to in-progress the first time one
// of its steps starts executing.
func (s *Scheduler) markGoalInProgress(planID string) {
	p, ok := s.planner.Plan(planID)
	if !ok {
		return
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if g := s.state.Goal(p.GoalID); g != nil && g.Status == agent.GoalPending {
		g.Status = agent.GoalInProgress
	}
}

// stringsFromContext extracts a string slice stored under key, accepting
// both []string and []any forms (the latter appears after JSON round-trips).
func stringsFromContext(ctx map[string]any, key string) []string {
	switch v := ctx[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
