// Package planning provides the hierarchical planning engine: it turns a
// prioritized goal and free-form contextual hints into a validated,
// duration-estimated execution plan, and supports incremental re-planning
// that preserves completed work.
package planning

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/plan"
	"github.com/felixgeelhaar/autopilot/domain/policy"
)

// Context is the planning engine's view of the world for one planning pass.
type Context struct {
	// Goals are the candidate goals, in caller-supplied order.
	Goals []agent.Goal

	// Hints are free-form strings mined for candidate steps.
	Hints []string

	// Resources are the names of resources currently available.
	Resources []string
}

// Engine owns the active-plan store and implements plan creation, adaptation,
// progress tracking, and cleanup. Its entry points are synchronous; the
// computation itself never suspends, so an implementation backed by an
// external reasoning service can substitute for it behind the same surface.
type Engine struct {
	store        plan.Store
	capabilities policy.Capabilities
	guardrails   policy.Guardrails
	now          func() time.Time
	newID        func() string
}

// EngineConfig contains configuration for the planning engine.
type EngineConfig struct {
	// Store holds active plans. Required.
	Store plan.Store

	// Capabilities gate prioritization, parallel plans, and adaptation.
	Capabilities policy.Capabilities

	// Guardrails supply the planning-horizon and duration caps.
	Guardrails policy.Guardrails

	// Now is the time source. Defaults to time.Now.
	Now func() time.Time
}

// NewEngine creates a planning engine with the given configuration.
func NewEngine(config EngineConfig) (*Engine, error) {
	if config.Store == nil {
		return nil, errors.New("plan store is required")
	}
	e := &Engine{
		store:        config.Store,
		capabilities: config.Capabilities,
		guardrails:   config.Guardrails,
		now:          config.Now,
		newID:        uuid.NewString,
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// CreatePlan builds a validated execution plan for the top-priority plannable
// goal in the context. It returns ErrNoGoals when nothing is plannable.
func (e *Engine) CreatePlan(pctx Context) (*plan.ExecutionPlan, error) {
	goals := pctx.Goals
	if e.capabilities.PrioritizeTasks {
		goals = e.PrioritizeGoals(goals)
	}

	var target *agent.Goal
	for i := range goals {
		if goals[i].Plannable() {
			target = &goals[i]
			break
		}
	}
	if target == nil {
		return nil, ErrNoGoals
	}

	steps := e.generateSteps(*target, pctx, 0, "")
	p := &plan.ExecutionPlan{
		ID:        "plan-" + e.newID(),
		GoalID:    target.ID,
		Steps:     steps,
		Status:    plan.StatusDraft,
		CreatedAt: e.now(),
	}
	p.Estimated = e.estimateDuration(steps)
	p.Feasibility = e.feasibility(steps, p.Estimated, pctx.Resources)
	p.Risks = e.identifyRisks(*target, steps, p.Estimated, pctx.Resources)

	if err := e.store.Put(p); err != nil {
		return nil, fmt.Errorf("storing plan: %w", err)
	}
	return p.Clone(), nil
}

// AdaptPlan re-plans the pending tail of an existing plan against a new
// context. Completed steps are kept verbatim; the remainder is regenerated
// with the same step-generation algorithm, offset by the completed count.
// The stored plan object is replaced wholesale.
func (e *Engine) AdaptPlan(planID string, pctx Context) (*plan.ExecutionPlan, error) {
	if !e.capabilities.AdaptPlans {
		return nil, ErrAdaptationUnsupported
	}

	existing, ok := e.store.Get(planID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanNotFound, planID)
	}

	var target *agent.Goal
	for i := range pctx.Goals {
		if pctx.Goals[i].ID == existing.GoalID {
			target = &pctx.Goals[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", agent.ErrGoalNotFound, existing.GoalID)
	}

	completed := make([]plan.Step, 0, len(existing.Steps))
	for i := range existing.Steps {
		if existing.Steps[i].Status == plan.StepCompleted {
			completed = append(completed, existing.Steps[i].Clone())
		}
	}

	prevID := ""
	if n := len(completed); n > 0 {
		prevID = completed[n-1].ID
	}
	tail := e.generateSteps(*target, pctx, len(completed), prevID)

	adapted := &plan.ExecutionPlan{
		ID:        existing.ID,
		GoalID:    existing.GoalID,
		Steps:     append(completed, tail...),
		Status:    existing.Status,
		CreatedAt: existing.CreatedAt,
	}
	adapted.Estimated = e.estimateDuration(adapted.Steps)
	adapted.Feasibility = e.feasibility(adapted.Steps, adapted.Estimated, pctx.Resources)
	adapted.Risks = e.identifyRisks(*target, adapted.Steps, adapted.Estimated, pctx.Resources)

	if err := e.store.Put(adapted); err != nil {
		return nil, fmt.Errorf("storing adapted plan: %w", err)
	}
	return adapted.Clone(), nil
}

// UpdatePlanProgress mutates one step's status and recomputes the plan's
// aggregate status. It returns the updated plan so the caller can propagate
// goal status and emit completion events. The operation is idempotent.
func (e *Engine) UpdatePlanProgress(planID, stepID string, status plan.StepStatus) (*plan.ExecutionPlan, error) {
	p, ok := e.store.Get(planID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanNotFound, planID)
	}

	step := p.Step(stepID)
	if step == nil {
		return nil, fmt.Errorf("%w: %s in plan %s", plan.ErrStepNotFound, stepID, planID)
	}

	step.Status = status
	p.Status = p.Aggregate()

	if err := e.store.Put(p); err != nil {
		return nil, fmt.Errorf("storing plan: %w", err)
	}
	return p.Clone(), nil
}

// Plan retrieves a plan by ID.
func (e *Engine) Plan(planID string) (*plan.ExecutionPlan, bool) {
	p, ok := e.store.Get(planID)
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Plans returns all active plans.
func (e *Engine) Plans() []*plan.ExecutionPlan {
	stored := e.store.List()
	out := make([]*plan.ExecutionPlan, len(stored))
	for i, p := range stored {
		out[i] = p.Clone()
	}
	return out
}

// Cleanup removes completed and failed plans from the store and returns the
// number removed. Draft and executing plans are never auto-purged: callers
// must progress or abandon them explicitly, or the store grows without
// bound.
func (e *Engine) Cleanup() int {
	removed := 0
	for _, p := range e.store.List() {
		if p.Status.IsTerminal() {
			if err := e.store.Delete(p.ID); err == nil {
				removed++
			}
		}
	}
	return removed
}
