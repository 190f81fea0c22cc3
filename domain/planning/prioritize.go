package planning

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/agent"
)

// urgencyFloorMs prevents division by zero and makes overdue deadlines
// dominate: as the remaining time approaches zero the urgency term grows
// without bound, an intentional asymptotic bias toward near-deadline goals.
const urgencyFloorMs = 0.001

// PrioritizeGoals returns the goals sorted descending by composite score:
// base priority + deadline urgency + status bonus. The sort is stable, so
// equal-score goals keep their caller-supplied order. The input slice is not
// modified.
func (e *Engine) PrioritizeGoals(goals []agent.Goal) []agent.Goal {
	out := make([]agent.Goal, len(goals))
	copy(out, goals)

	now := e.now()
	sort.SliceStable(out, func(i, j int) bool {
		return compositeScore(out[i], now) > compositeScore(out[j], now)
	})
	return out
}

// compositeScore is priority + urgency + status bonus. Urgency is
// 2 / msUntilDeadline, clamped below so overdue deadlines score highest;
// goals already in progress get +1 as a continuity preference.
func compositeScore(g agent.Goal, now time.Time) float64 {
	score := g.Priority
	if g.Deadline != nil {
		msUntil := float64(g.Deadline.Sub(now)) / float64(time.Millisecond)
		if msUntil < urgencyFloorMs {
			msUntil = urgencyFloorMs
		}
		score += 2 / msUntil
	}
	if g.Status == agent.GoalInProgress {
		score++
	}
	return score
}
