package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/nanotodos/nanotodos"
	"github.com/arthur-debert/nanotodos/types"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "create list", "toggle todo")
	Cause       string   // The underlying cause (e.g., "list not found")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging

	exitCode int
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// ExitCode returns the process exit code for this error
func (e *CLIError) ExitCode() int {
	if e.exitCode == 0 {
		return exitFailure
	}
	return e.exitCode
}

// Error constructors for common CLI error scenarios

// NewValidationError creates an error for invalid user input
func NewValidationError(operation, field, value string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid %s: %q", field, value),
		Suggestions: suggestions,
		exitCode:    exitUsage,
	}
}

// NewNotFoundError creates an error for missing lists or todos
func NewNotFoundError(operation, resource, id string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("%s with ID %q not found", resource, id),
		Suggestions: suggestions,
		Underlying:  types.ErrNotFound,
		exitCode:    exitUsage,
	}
}

// NewConflictError creates an error for a value that must be unique
func NewConflictError(operation, field, value string, underlying error) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("the %s %q is already taken; the list title must be unique", field, value),
		Suggestions: []string{CommonSuggestions.ChooseTitle},
		Underlying:  underlying,
		exitCode:    exitFailure,
	}
}

// NewConfigError creates an error for configuration issues
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
		exitCode:    exitUsage,
	}
}

// NewStoreError creates an error for store-related issues
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "store operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		errStr := strings.ToLower(underlying.Error())
		switch {
		case strings.Contains(errStr, "no such file"):
			cause = "database file not found"
		case strings.Contains(errStr, "permission denied"):
			cause = "insufficient permissions to access database"
		case strings.Contains(errStr, "database is locked"), strings.Contains(errStr, "failed to acquire lock"):
			cause = "database is currently locked by another process"
		case strings.Contains(errStr, "failed to parse json"):
			cause = "snapshot file is corrupt"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
		exitCode:    exitFailure,
	}
}

// WrapError wraps an existing error with CLI-friendly context, classifying
// the core error kinds.
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	switch {
	case errors.Is(err, types.ErrListNotFound):
		return &CLIError{Operation: operation, Cause: "todo list not found", Suggestions: suggestions, Underlying: err, exitCode: exitUsage}
	case errors.Is(err, types.ErrTodoNotFound):
		return &CLIError{Operation: operation, Cause: "todo not found", Suggestions: suggestions, Underlying: err, exitCode: exitUsage}
	case nanotodos.IsUniqueConstraintViolation(err):
		var ce *types.ConstraintError
		value := ""
		if errors.As(err, &ce) {
			value = ce.Value
		}
		return NewConflictError(operation, "title", value, err)
	}

	return NewStoreError(operation, err, suggestions...)
}

// exitCodeFor maps an error returned by Execute to a process exit code
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	// Cobra argument and flag errors
	return exitUsage
}

// Common error messages and suggestions
var (
	CommonSuggestions = struct {
		CheckDB     string
		CheckDriver string
		CheckListID string
		CheckTodoID string
		CheckConfig string
		RunHelp     string
		CheckPerms  string
		ChooseTitle string
	}{
		CheckDB:     "Verify --db points to a valid database or snapshot file",
		CheckDriver: "Use --driver sqlite, json or memory",
		CheckListID: "Verify the list ID exists (try 'lists' first)",
		CheckTodoID: "Verify the todo ID exists in that list (try 'show <list>' first)",
		CheckConfig: "Check your configuration file or environment variables",
		RunHelp:     "Run command with --help for usage information",
		CheckPerms:  "Check file permissions and directory access",
		ChooseTitle: "Choose a title no other list uses (titles are case-sensitive)",
	}
)
