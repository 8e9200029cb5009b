package types

import (
	"errors"
	"fmt"
)

// ErrNotFound is the root of every "id does not resolve" error.
var ErrNotFound = errors.New("not found")

var (
	// ErrListNotFound is returned when a list id does not resolve.
	ErrListNotFound = fmt.Errorf("todo list %w", ErrNotFound)

	// ErrTodoNotFound is returned when a todo id does not resolve inside
	// the given list, including when the list itself is missing.
	ErrTodoNotFound = fmt.Errorf("todo %w", ErrNotFound)

	// ErrUserNotFound is returned when a username has no stored login.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
)

// ErrUniqueConstraintViolation marks a create or rename that collided with
// an existing unique value (list title, username).
var ErrUniqueConstraintViolation = errors.New("unique constraint violation")

// ConstraintError carries the backing store's own description of a
// uniqueness failure while classifying as ErrUniqueConstraintViolation.
type ConstraintError struct {
	Field string // e.g. "todolists.title"
	Value string
	Err   error // driver error, may be nil
}

// Error implements the error interface
func (e *ConstraintError) Error() string {
	msg := fmt.Sprintf("unique constraint violation on %s", e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports ErrUniqueConstraintViolation as a match.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrUniqueConstraintViolation
}

// Unwrap returns the underlying driver error
func (e *ConstraintError) Unwrap() error {
	return e.Err
}
