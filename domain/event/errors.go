package event

import "errors"

// Domain errors for event publishing and storage.
var (
	ErrStoreClosed  = errors.New("event store is closed")
	ErrInvalidAgent = errors.New("invalid agent ID")
)
