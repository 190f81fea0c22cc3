package memory

import "errors"

// Domain errors for episodic memory stores.
var (
	ErrConnectionFailed = errors.New("memory store connection failed")
	ErrStoreClosed      = errors.New("memory store is closed")
	ErrInvalidEntry     = errors.New("invalid memory entry")
)
