// Package memory provides in-memory storage implementations for development
// and testing.
package memory

import (
	"sort"
	"sync"

	"github.com/felixgeelhaar/autopilot/domain/plan"
)

// PlanStore is an in-memory implementation of plan.Store. Entries are deep
// copies, so callers can never mutate stored plans in place: replacement is
// always wholesale through Put.
type PlanStore struct {
	plans map[string]*plan.ExecutionPlan
	mu    sync.RWMutex
}

// NewPlanStore creates a new in-memory plan store.
func NewPlanStore() *PlanStore {
	return &PlanStore{
		plans: make(map[string]*plan.ExecutionPlan),
	}
}

// Put saves or replaces a plan.
func (s *PlanStore) Put(p *plan.ExecutionPlan) error {
	if p == nil || p.ID == "" {
		return plan.ErrInvalidPlan
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = p.Clone()
	return nil
}

// Get retrieves a plan by ID.
func (s *PlanStore) Get(id string) (*plan.ExecutionPlan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Delete removes a plan by ID.
func (s *PlanStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return plan.ErrPlanNotFound
	}
	delete(s.plans, id)
	return nil
}

// List returns all stored plans, ordered by creation time then ID for
// deterministic iteration.
func (s *PlanStore) List() []*plan.ExecutionPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*plan.ExecutionPlan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of stored plans.
func (s *PlanStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plans)
}

// Ensure PlanStore implements plan.Store
var _ plan.Store = (*PlanStore)(nil)
