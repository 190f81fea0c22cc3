package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	"github.com/felixgeelhaar/autopilot/domain/plan"
)

// Nominal step durations. Step text carries no timing information, so
// estimation works from these fixed figures.
const (
	immediateStepDuration = 5 * time.Second
	complexStepDuration   = 10 * time.Second
	defaultComplexSteps   = 3
)

// generateSteps produces the step list for a goal, skipping the first offset
// candidates (used by adaptation to regenerate only the pending tail) and
// numbering positionally from offset+1. When the capability set only supports
// sequential plans, each emitted step is chained to its predecessor; prevID
// seeds the chain across an adaptation boundary.
func (e *Engine) generateSteps(g agent.Goal, pctx Context, offset int, prevID string) []plan.Step {
	candidates := e.candidateSteps(g, pctx.Hints)
	if offset >= len(candidates) {
		return nil
	}
	candidates = candidates[offset:]

	steps := make([]plan.Step, 0, len(candidates))
	for i, c := range candidates {
		c.ID = fmt.Sprintf("step-%d", offset+i+1)
		c.Status = plan.StepPending
		c.Requires = extractResources(c.Action)
		if !e.capabilities.ParallelPlans && prevID != "" {
			c.DependsOn = []string{prevID}
		}
		prevID = c.ID
		steps = append(steps, c)
	}
	return steps
}

// candidateSteps derives the unnumbered step sequence for a goal. Immediate
// goals yield exactly one step. Complex goals yield one step per hint whose
// text contains the first word of the goal description (plain substring
// match, not semantic matching), or three generic steps when nothing
// matches, capped by the planning-horizon budget.
func (e *Engine) candidateSteps(g agent.Goal, hints []string) []plan.Step {
	if g.Type == agent.GoalImmediate {
		return []plan.Step{{
			Action:      g.Description,
			Description: "Execute immediate goal: " + g.Description,
			Estimated:   immediateStepDuration,
		}}
	}

	keyword := firstWord(g.Description)
	var matched []string
	for _, h := range hints {
		if keyword != "" && strings.Contains(strings.ToLower(h), keyword) {
			matched = append(matched, h)
		}
	}

	count := len(matched)
	if count == 0 {
		count = defaultComplexSteps
	}
	if cap := e.guardrails.MaxPlanSteps; cap > 0 && count > cap {
		count = cap
	}

	steps := make([]plan.Step, 0, count)
	for i := 0; i < count; i++ {
		action := fmt.Sprintf("Work on %s (part %d)", g.Description, i+1)
		if i < len(matched) {
			action = matched[i]
		}
		steps = append(steps, plan.Step{
			Action:      action,
			Description: fmt.Sprintf("Step %d toward goal: %s", i+1, g.Description),
			Estimated:   complexStepDuration,
		})
	}
	return steps
}

// firstWord returns the lowercased first word of a description.
func firstWord(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
