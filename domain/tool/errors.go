package tool

import "errors"

// Domain errors for tools and registries.
var (
	ErrInvalidName       = errors.New("tool name must not be empty")
	ErrNilHandler        = errors.New("tool handler must not be nil")
	ErrToolNotFound      = errors.New("tool not found")
	ErrAlreadyRegistered = errors.New("tool already registered")
)
