package harness

import (
	"errors"
	"fmt"
)

// StartupError signals that a process pair could not be brought up: the
// artifact failed to spawn or its runtime launcher could not be resolved.
// The affected case is scored zero; the suite continues.
type StartupError struct {
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface.
func (e *StartupError) Unwrap() error {
	return e.Err
}

// NewStartupError creates a new StartupError.
func NewStartupError(err error) *StartupError {
	return &StartupError{Err: err}
}

// IsStartupError checks if the error is or wraps a StartupError.
func IsStartupError(err error) bool {
	var startupErr *StartupError
	return err != nil && errors.As(err, &startupErr)
}
