// Package apperr defines the error taxonomy shared by domain packages and
// mapped to HTTP statuses at the route boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors checked with errors.Is.
var (
	// ErrUnauthorized means no valid session accompanied the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the resource exists but is owned by another user.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the resource id has no row.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a missing required field or invalid enum value.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// GateError reports a parent completion blocked by incomplete sub-items.
type GateError struct {
	IncompleteCount int
}

func (e *GateError) Error() string {
	return fmt.Sprintf("cannot complete parent item until all sub-items are completed (%d incomplete)", e.IncompleteCount)
}
