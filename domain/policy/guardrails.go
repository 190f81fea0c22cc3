// Package policy provides domain models for guardrail and capability
// enforcement.
package policy

import "time"

// Guardrails are static, soft runtime limits supplied at agent construction.
// Violations pause execution rather than aborting it.
//
// Thread Safety: Guardrails are NOT safe for concurrent modification. They
// should be fully configured before being passed to the agent and treated as
// immutable thereafter.
type Guardrails struct {
	// MaxMemoryMB is the process heap ceiling in megabytes.
	MaxMemoryMB float64

	// MaxConcurrentOperations caps the number of goals simultaneously
	// carrying in-progress status.
	MaxConcurrentOperations int

	// MaxExecutionTime is the total time budget for the cycle loop. Once
	// elapsed the agent stops gracefully; this is not treated as an error.
	MaxExecutionTime time.Duration

	// AllowedTools is the tool registration allow-list.
	AllowedTools []string

	// MaxPlanSteps is the planning-horizon cap on steps per plan.
	MaxPlanSteps int

	// MaxPlanDuration is the feasibility ceiling on a plan's estimated
	// duration.
	MaxPlanDuration time.Duration
}

// DefaultGuardrails returns guardrails with conservative defaults.
func DefaultGuardrails() Guardrails {
	return Guardrails{
		MaxMemoryMB:             512,
		MaxConcurrentOperations: 5,
		MaxExecutionTime:        time.Hour,
		MaxPlanSteps:            10,
		MaxPlanDuration:         30 * time.Minute,
	}
}

// ToolAllowed checks the registration allow-list. An empty list places no
// restriction on registration.
func (g Guardrails) ToolAllowed(name string) bool {
	if len(g.AllowedTools) == 0 {
		return true
	}
	for _, t := range g.AllowedTools {
		if t == name {
			return true
		}
	}
	return false
}
