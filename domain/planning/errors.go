package planning

import "errors"

// Planning-API errors. These are raised synchronously to the direct caller;
// there is no catch-all boundary inside the engine.
var (
	// ErrNoGoals is returned when the context holds no plannable goal.
	ErrNoGoals = errors.New("no plannable goals in context")

	// ErrAdaptationUnsupported is returned when the capability set does not
	// include plan adaptation.
	ErrAdaptationUnsupported = errors.New("agent capabilities do not support plan adaptation")
)
