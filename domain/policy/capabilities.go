package policy

// Capabilities declare what the agent is permitted and able to do. Like
// Guardrails they are static configuration, fixed at construction.
type Capabilities struct {
	// PrioritizeTasks enables deadline-aware goal prioritization; without it
	// goals are planned in caller-supplied order.
	PrioritizeTasks bool

	// ParallelPlans allows plans with independent steps. Without it every
	// step is chained to its predecessor, forming a strict linear plan.
	ParallelPlans bool

	// AdaptPlans enables incremental re-planning of in-flight plans.
	AdaptPlans bool

	// InitiateConversations allows the agent to originate outbound messages.
	InitiateConversations bool
}

// DefaultCapabilities returns the capability set of a fully featured agent.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		PrioritizeTasks:       true,
		ParallelPlans:         false,
		AdaptPlans:            true,
		InitiateConversations: true,
	}
}
