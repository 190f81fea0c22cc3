// Package plan provides the domain model for execution plans produced by the
// planning engine.
package plan

import "time"

// Status represents the aggregate lifecycle of an execution plan.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusExecuting Status = "executing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal returns true if the plan has reached a terminal status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsValid returns true if the status is a recognized plan status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusExecuting, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// ExecutionPlan is an ordered, dependency-linked set of steps targeting one
// goal. Plans are owned by the planning engine's store and are replaced
// wholesale on adaptation, never partially mutated.
type ExecutionPlan struct {
	ID          string        `json:"id"`
	GoalID      string        `json:"goal_id"`
	Steps       []Step        `json:"steps"`
	Estimated   time.Duration `json:"estimated_duration"`
	Feasibility float64       `json:"feasibility"` // Heuristic confidence in [0,1]
	Risks       []string      `json:"risks,omitempty"`
	Status      Status        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Step returns a pointer to the step with the given ID, or nil.
func (p *ExecutionPlan) Step(id string) *Step {
	for i := range p.Steps {
		if p.Steps[i].ID == id {
			return &p.Steps[i]
		}
	}
	return nil
}

// Aggregate derives the plan status from its steps by precedence: any failed
// step fails the plan, all steps completed completes it, any in-progress step
// marks it executing, otherwise the current status is kept.
func (p *ExecutionPlan) Aggregate() Status {
	failed := false
	inProgress := false
	completed := len(p.Steps) > 0
	for i := range p.Steps {
		switch p.Steps[i].Status {
		case StepFailed:
			failed = true
		case StepInProgress:
			inProgress = true
		}
		if p.Steps[i].Status != StepCompleted {
			completed = false
		}
	}
	switch {
	case failed:
		return StatusFailed
	case completed:
		return StatusCompleted
	case inProgress:
		return StatusExecuting
	default:
		return p.Status
	}
}

// Clone returns a deep copy of the plan.
func (p *ExecutionPlan) Clone() *ExecutionPlan {
	cp := *p
	cp.Steps = make([]Step, len(p.Steps))
	for i := range p.Steps {
		cp.Steps[i] = p.Steps[i].Clone()
	}
	if p.Risks != nil {
		cp.Risks = make([]string, len(p.Risks))
		copy(cp.Risks, p.Risks)
	}
	return &cp
}
