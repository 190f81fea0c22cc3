package plan

// Store defines the interface for active plan storage.
// This is a repository interface - implementations are in infrastructure.
type Store interface {
	// Put saves or replaces a plan. Replacement is always wholesale.
	Put(p *ExecutionPlan) error

	// Get retrieves a plan by ID.
	Get(id string) (*ExecutionPlan, bool)

	// Delete removes a plan by ID.
	Delete(id string) error

	// List returns all stored plans.
	List() []*ExecutionPlan

	// Len returns the number of stored plans.
	Len() int
}
