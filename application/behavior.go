package application

import (
	"context"
	"encoding/json"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/plan"
)

// Behavior supplies the domain-specific phases of the autonomy cycle. The
// scheduler inspects return values only for presence; their shape is opaque
// to the core.
type Behavior interface {
	// Perceive gathers observations about the environment. The result is
	// merged into the agent's context before planning.
	Perceive(ctx context.Context, state agent.State) (any, error)

	// Execute carries out a selected decision when it does not name a
	// registered tool. The outcome is passed to Learn.
	Execute(ctx context.Context, decision Decision) (any, error)

	// Learn folds an execution outcome back into long-term behavior.
	Learn(ctx context.Context, state agent.State, outcome any) error
}

// DecisionEngine selects the next actionable option from a plan. The
// scheduler branches only on whether a selection exists.
type DecisionEngine interface {
	Decide(ctx context.Context, p *plan.ExecutionPlan) (Decision, error)
}

// Decision is the outcome of one decide phase.
type Decision struct {
	// PlanID is the plan the selection belongs to.
	PlanID string

	// SelectedStep is the chosen step, nil when nothing is actionable.
	SelectedStep *plan.Step

	// ToolName routes execution through the resilient tool executor when it
	// names a registered tool. Empty means Behavior.Execute handles it.
	ToolName string

	// Input is the tool input payload.
	Input json.RawMessage
}

// HasSelection returns true when the decide phase chose a step to act on.
func (d Decision) HasSelection() bool {
	return d.SelectedStep != nil
}

// NoopBehavior is a Behavior that observes nothing and acts through tools
// only. It is the default when no behavior is supplied.
type NoopBehavior struct{}

// Perceive returns no observation.
func (NoopBehavior) Perceive(ctx context.Context, state agent.State) (any, error) {
	return nil, nil
}

// Execute reports the acted-on step as its outcome.
func (NoopBehavior) Execute(ctx context.Context, decision Decision) (any, error) {
	if decision.SelectedStep == nil {
		return nil, nil
	}
	return decision.SelectedStep.Action, nil
}

// Learn discards the outcome.
func (NoopBehavior) Learn(ctx context.Context, state agent.State, outcome any) error {
	return nil
}

var _ Behavior = NoopBehavior{}

// NextStepDecision selects the first pending step whose dependencies have all
// completed, yielding strict in-order execution for linear plans.
type NextStepDecision struct{}

// Decide implements DecisionEngine.
func (NextStepDecision) Decide(ctx context.Context, p *plan.ExecutionPlan) (Decision, error) {
	if p == nil {
		return Decision{}, nil
	}

	done := make(map[string]bool, len(p.Steps))
	for _, s := range p.Steps {
		if s.Status == plan.StepCompleted {
			done[s.ID] = true
		}
	}

	for i := range p.Steps {
		s := p.Steps[i]
		if s.Status != plan.StepPending {
			continue
		}
		ready := true
		for _, dep := range s.DependsOn {
			if !done[dep] {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		selected := s.Clone()
		return Decision{
			PlanID:       p.ID,
			SelectedStep: &selected,
		}, nil
	}

	return Decision{}, nil
}

var _ DecisionEngine = NextStepDecision{}
