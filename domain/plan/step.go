package plan

import "time"

// StepStatus represents the lifecycle of a single plan step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in-progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// IsValid returns true if the status is a recognized step status.
func (s StepStatus) IsValid() bool {
	switch s {
	case StepPending, StepInProgress, StepCompleted, StepFailed:
		return true
	default:
		return false
	}
}

// Step is one unit of work inside an execution plan. Prerequisites form a DAG
// over the steps of a single plan: steps are generated and linked strictly in
// creation order, so DependsOn only ever references earlier steps.
type Step struct {
	ID          string        `json:"id"`
	Action      string        `json:"action"`
	Description string        `json:"description"`
	DependsOn   []string      `json:"depends_on,omitempty"`
	Requires    []string      `json:"requires,omitempty"` // Structured resource requirements
	Estimated   time.Duration `json:"estimated_duration"`
	Status      StepStatus    `json:"status"`
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	cp := s
	if s.DependsOn != nil {
		cp.DependsOn = make([]string, len(s.DependsOn))
		copy(cp.DependsOn, s.DependsOn)
	}
	if s.Requires != nil {
		cp.Requires = make([]string, len(s.Requires))
		copy(cp.Requires, s.Requires)
	}
	return cp
}
