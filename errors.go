package grader

import (
	"errors"
	"fmt"
)

// RuntimeError represents an operational error that should lead to exit
// code 2. Examples include missing student artifacts, an unreadable suite
// directory, or bad configuration.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// GradingFailureError represents a run in which one or more test cases
// failed (exit code 1). The grading itself completed normally.
type GradingFailureError struct {
	Message string
}

func (e *GradingFailureError) Error() string {
	return fmt.Sprintf("grading failure: %s", e.Message)
}

// NewGradingFailureError creates a new GradingFailureError
func NewGradingFailureError(message string) *GradingFailureError {
	return &GradingFailureError{Message: message}
}

// IsGradingFailureError checks if the error is or wraps a GradingFailureError
func IsGradingFailureError(err error) bool {
	var gradingErr *GradingFailureError
	return err != nil && errors.As(err, &gradingErr)
}
