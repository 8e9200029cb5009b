package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/arthur-debert/nanotodos/types"
)

func TestCLIErrorMessage(t *testing.T) {
	err := &CLIError{
		Operation:   "create todo list",
		Cause:       "database is currently locked by another process",
		Details:     "database is locked",
		Suggestions: []string{"Close other nanotodos processes", CommonSuggestions.CheckDB},
	}

	want := "Failed to create todo list: database is currently locked by another process (database is locked)" +
		"\n\nSuggestions:\n  1. Close other nanotodos processes\n  2. " + CommonSuggestions.CheckDB
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}

	if got := (&CLIError{}).Error(); got != "Operation failed" {
		t.Errorf("empty error = %q", got)
	}
}

func TestWrapError(t *testing.T) {
	conflict := &types.ConstraintError{Field: "todolists.title", Value: "Work"}

	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantCause string
		wantIs    error
	}{
		{"list not found", fmt.Errorf("load: %w", types.ErrListNotFound), exitUsage, "todo list not found", types.ErrNotFound},
		{"todo not found", types.ErrTodoNotFound, exitUsage, "todo not found", types.ErrTodoNotFound},
		{"unique violation", conflict, exitFailure, `"Work" is already taken`, types.ErrUniqueConstraintViolation},
		{"locked", errors.New("database is locked"), exitFailure, "locked by another process", nil},
		{"lock timeout", errors.New("failed to acquire lock after 3 attempts"), exitFailure, "locked by another process", nil},
		{"corrupt snapshot", errors.New("failed to parse JSON: unexpected end"), exitFailure, "snapshot file is corrupt", nil},
		{"other", errors.New("boom"), exitFailure, "store operation failed", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError("do things", tt.err)

			var cliErr *CLIError
			if !errors.As(err, &cliErr) {
				t.Fatalf("expected *CLIError, got %T", err)
			}
			if cliErr.ExitCode() != tt.wantCode {
				t.Errorf("exit code = %d, want %d", cliErr.ExitCode(), tt.wantCode)
			}
			if !strings.Contains(cliErr.Cause, tt.wantCause) {
				t.Errorf("cause %q does not contain %q", cliErr.Cause, tt.wantCause)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("expected errors.Is(err, %v)", tt.wantIs)
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		if WrapError("do things", nil) != nil {
			t.Error("expected nil")
		}
	})

	t.Run("keeps CLI errors", func(t *testing.T) {
		orig := NewValidationError("", "title", "")
		err := WrapError("create todo list", orig)
		if err != orig || orig.Operation != "create todo list" {
			t.Errorf("expected the same error with its operation filled, got %v", err)
		}
	})
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"validation", NewValidationError("add todo", "todo title", ""), exitUsage},
		{"not found", NewNotFoundError("show todo list", "todo list", "9"), exitUsage},
		{"config", NewConfigError("load configuration", "bad yaml"), exitUsage},
		{"store", NewStoreError("add todo", errors.New("disk full")), exitFailure},
		{"zero code defaults to failure", &CLIError{Cause: "invalid credentials"}, exitFailure},
		{"wrapped", fmt.Errorf("outer: %w", NewValidationError("x", "y", "z")), exitUsage},
		{"cobra usage", errors.New(`unknown command "frob" for "nanotodos"`), exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	err := NewNotFoundError("toggle todo", "todo", "12", CommonSuggestions.CheckTodoID)
	if !errors.Is(err, types.ErrNotFound) {
		t.Error("expected not found error to match types.ErrNotFound")
	}
	if !strings.Contains(err.Error(), `todo with ID "12" not found`) {
		t.Errorf("unexpected message: %s", err)
	}
}
