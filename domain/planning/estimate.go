package planning

import (
	"regexp"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/plan"
)

// resourcePattern extracts resource tokens from natural-language step text.
// It is a compatibility fallback: steps generated by this engine carry a
// structured Requires list, but externally authored plans may only encode
// requirements as "use <word>" phrases.
var resourcePattern = regexp.MustCompile(`(?i)\buse\s+(\w+)`)

// Feasibility penalty factors. Penalties are multiplicative and compound
// when several constraints are violated at once.
const (
	penaltyTooManySteps    = 0.7
	penaltyTooLong         = 0.8
	penaltyMissingResource = 0.5
)

// estimateDuration approximates a plan's total duration. Sequential plans sum
// every step; parallel-capable plans take the longest single step as a
// critical-path approximation. The parallel figure understates plans holding
// several independent dependency chains.
func (e *Engine) estimateDuration(steps []plan.Step) time.Duration {
	if e.capabilities.ParallelPlans {
		var max time.Duration
		for i := range steps {
			if steps[i].Estimated > max {
				max = steps[i].Estimated
			}
		}
		return max
	}

	var total time.Duration
	for i := range steps {
		total += steps[i].Estimated
	}
	return total
}

// feasibility scores confidence that the plan executes within its
// constraints, always inside [0,1].
func (e *Engine) feasibility(steps []plan.Step, estimated time.Duration, available []string) float64 {
	score := 1.0

	if cap := e.guardrails.MaxPlanSteps; cap > 0 && len(steps) > cap {
		score *= penaltyTooManySteps
	}
	if cap := e.guardrails.MaxPlanDuration; cap > 0 && estimated > cap {
		score *= penaltyTooLong
	}
	if missingResource(steps, available) {
		score *= penaltyMissingResource
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// missingResource reports whether any step requires a resource absent from
// the available set. The structured Requires list is consulted first; the
// "use <word>" pattern on step text is the fallback.
func missingResource(steps []plan.Step, available []string) bool {
	set := make(map[string]bool, len(available))
	for _, r := range available {
		set[r] = true
	}

	for i := range steps {
		required := steps[i].Requires
		if len(required) == 0 {
			required = extractResources(steps[i].Action)
		}
		for _, r := range required {
			if !set[r] {
				return true
			}
		}
	}
	return false
}

// extractResources pulls resource tokens out of step text.
func extractResources(text string) []string {
	matches := resourcePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
