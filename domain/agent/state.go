package agent

import "time"

// State is the aggregate root for one agent instance. It is exclusively owned
// and mutated by the agent's single cycle loop; external callers only ever see
// snapshots produced by Snapshot.
type State struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Status       Status         `json:"status"`
	Goals        []Goal         `json:"goals"`
	Context      map[string]any `json:"context"`
	ErrorCount   int            `json:"error_count"`
	LastActivity time.Time      `json:"last_activity"`
}

// NewState creates the agent state. It is created once at agent construction
// and lives for the lifetime of the process.
func NewState(id, name string) *State {
	return &State{
		ID:           id,
		Name:         name,
		Status:       StatusIdle,
		Goals:        make([]Goal, 0),
		Context:      make(map[string]any),
		LastActivity: time.Now(),
	}
}

// AddGoal appends a goal to the agent's goal list.
func (s *State) AddGoal(g Goal) {
	s.Goals = append(s.Goals, g)
}

// Goal returns a pointer to the goal with the given ID, or nil.
func (s *State) Goal(id string) *Goal {
	for i := range s.Goals {
		if s.Goals[i].ID == id {
			return &s.Goals[i]
		}
	}
	return nil
}

// InProgressGoals counts goals currently carrying in-progress status. This is
// the concurrency figure the guardrail monitor evaluates each cycle.
func (s *State) InProgressGoals() int {
	n := 0
	for i := range s.Goals {
		if s.Goals[i].Status == GoalInProgress {
			n++
		}
	}
	return n
}

// MergeContext folds a perception result into the context blob and stamps the
// merge time. Non-map perceptions are stored under the "perception" key.
func (s *State) MergeContext(perception any, now time.Time) {
	if m, ok := perception.(map[string]any); ok {
		for k, v := range m {
			s.Context[k] = v
		}
	} else if perception != nil {
		s.Context["perception"] = perception
	}
	s.Context["timestamp"] = now
	s.LastActivity = now
}

// RecordError increments the monotone error counter.
func (s *State) RecordError(now time.Time) {
	s.ErrorCount++
	s.LastActivity = now
}

// Snapshot returns a defensive, read-only copy of the state. Goal and context
// containers are copied so a snapshot never aliases loop-owned memory.
func (s *State) Snapshot() State {
	cp := *s
	cp.Goals = make([]Goal, len(s.Goals))
	copy(cp.Goals, s.Goals)
	cp.Context = make(map[string]any, len(s.Context))
	for k, v := range s.Context {
		cp.Context[k] = v
	}
	return cp
}
