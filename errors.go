package brainsurgeon

import "errors"

// Common errors
var (
	// ErrInvalidConfig is returned when the application configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")
)
