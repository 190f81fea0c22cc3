package plan

import "errors"

// Domain errors for plan storage and progress updates. These surface
// synchronously to the direct caller; the cycle scheduler's recovery boundary
// does not swallow them on behalf of external callers.
var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrStepNotFound = errors.New("step not found")
	ErrInvalidPlan  = errors.New("invalid plan")
)
