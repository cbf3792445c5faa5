package prune

import (
	"errors"
	"fmt"
)

// Sentinel errors for prune operations.
var (
	// ErrSessionNotFound indicates the target session file does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidKeepRecent indicates a retention parameter below -1.
	ErrInvalidKeepRecent = errors.New("invalid keep_recent value")

	// ErrInvalidIndex indicates an entry index outside the session's range.
	ErrInvalidIndex = errors.New("invalid entry index")
)

// PruneError provides structured error context for prune operations.
type PruneError struct {
	// Op is the operation that failed (e.g., "Prune", "EditEntry").
	Op string

	// Path is the session file involved, if known.
	Path string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
func (e *PruneError) Error() string {
	msg := fmt.Sprintf("prune %s failed", e.Op)
	if e.Path != "" {
		msg += fmt.Sprintf(" for %s", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *PruneError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with operation and path context. If err is nil,
// returns nil.
func WrapError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PruneError{Op: op, Path: path, Err: err}
}
