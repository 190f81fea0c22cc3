package planning

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/plan"
)

// minComfortableResources is the resource count below which a plan is
// flagged as resource constrained.
const minComfortableResources = 3

// identifyRisks emits textual warnings, not scores. Dependencies are flagged
// whenever present, regardless of severity.
func (e *Engine) identifyRisks(g agent.Goal, steps []plan.Step, estimated time.Duration, available []string) []string {
	var risks []string

	if g.Deadline != nil {
		remaining := g.Deadline.Sub(e.now())
		if estimated > remaining {
			risks = append(risks, fmt.Sprintf(
				"estimated duration %s exceeds time remaining to deadline (%s)", estimated, remaining))
		}
	}

	for i := range steps {
		if len(steps[i].DependsOn) > 0 {
			risks = append(risks, "plan contains inter-step dependencies")
			break
		}
	}

	if len(available) < minComfortableResources {
		risks = append(risks, fmt.Sprintf(
			"only %d resources available, plan may be resource constrained", len(available)))
	}

	return risks
}
