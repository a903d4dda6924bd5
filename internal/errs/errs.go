// Package errs defines the error taxonomy the engine surfaces to handlers.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEvaluation signals that an evaluation already exists for the
	// (employee, month, year) key. Surfaced as a conflict, never merged.
	ErrDuplicateEvaluation = errors.New("evaluation already exists for this employee and period")

	// ErrNotFound covers unknown criterion/category/evaluation/employee references.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden signals a role below the privilege an operation requires.
	ErrForbidden = errors.New("insufficient role for this operation")

	// ErrCategoryCompleted signals a re-entry into a category that already has
	// a result; callers should redirect to the next category instead of
	// starting a timer.
	ErrCategoryCompleted = errors.New("category already completed")
)

// ValidationError carries per-field messages for malformed input. Always
// recoverable by the caller correcting the input.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}
