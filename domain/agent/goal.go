package agent

import "time"

// GoalType distinguishes directly actionable goals from goals that need
// hierarchical decomposition.
type GoalType string

const (
	GoalImmediate GoalType = "immediate" // Single-step, fixed nominal duration
	GoalComplex   GoalType = "complex"   // Decomposed into dependency-linked steps
)

// GoalStatus represents the lifecycle of a goal.
type GoalStatus string

const (
	GoalPending    GoalStatus = "pending"
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
	GoalFailed     GoalStatus = "failed"
)

// IsTerminal returns true if the goal has reached a terminal status.
func (s GoalStatus) IsTerminal() bool {
	return s == GoalCompleted || s == GoalFailed
}

// Goal is an externally supplied unit of intent. Goals are created by a goal
// source, consumed by the planning engine, and mutated only through
// plan-progress updates.
type Goal struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Type        GoalType   `json:"type"`
	Priority    float64    `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      GoalStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewGoal creates a pending goal with the given description and priority.
func NewGoal(id, description string, goalType GoalType, priority float64) Goal {
	return Goal{
		ID:          id,
		Description: description,
		Type:        goalType,
		Priority:    priority,
		Status:      GoalPending,
		CreatedAt:   time.Now(),
	}
}

// HasDeadline returns true if the goal carries a deadline.
func (g Goal) HasDeadline() bool {
	return g.Deadline != nil
}

// Plannable returns true if the goal is still a candidate for planning.
func (g Goal) Plannable() bool {
	return g.Status == GoalPending || g.Status == GoalInProgress
}
