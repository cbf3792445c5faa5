package trash

import (
	"errors"
	"fmt"
)

// Common errors returned by the trash package.
var (
	// ErrNotInTrash is returned when no trashed copy exists for the
	// requested agent/session pair.
	ErrNotInTrash = errors.New("session not found in trash")

	// ErrAlreadyStarted is returned when Start is called on a sweeper
	// that is already running.
	ErrAlreadyStarted = errors.New("sweeper already started")

	// ErrNotStarted is returned when Stop is called on a sweeper that
	// was never started.
	ErrNotStarted = errors.New("sweeper not started")
)

// TrashError provides structured error information for trash operations.
type TrashError struct {
	Op   string // operation that failed (e.g., "soft_delete", "restore")
	Path string // file path involved, if any
	Err  error  // underlying error
}

func (e *TrashError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("trash %s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("trash %s: %v", e.Op, e.Err)
}

func (e *TrashError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with operation context.
func WrapError(op, path string, err error) *TrashError {
	return &TrashError{Op: op, Path: path, Err: err}
}
