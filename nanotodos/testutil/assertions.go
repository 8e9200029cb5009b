package testutil

import (
	"errors"
	"testing"

	"github.com/arthur-debert/nanotodos/types"
	"github.com/google/go-cmp/cmp"
)

// ListTitles returns the titles of lists in order.
func ListTitles(lists []types.TodoList) []string {
	out := make([]string, len(lists))
	for i, l := range lists {
		out[i] = l.Title
	}
	return out
}

// TodoTitles returns the titles of todos in order.
func TodoTitles(todos []types.Todo) []string {
	out := make([]string, len(todos))
	for i, td := range todos {
		out[i] = td.Title
	}
	return out
}

// AssertListOrder checks list titles in order
func AssertListOrder(t *testing.T, lists []types.TodoList, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, ListTitles(lists)); diff != "" {
		t.Errorf("list order mismatch (-want +got):\n%s", diff)
	}
}

// AssertTodoOrder checks todo titles in order
func AssertTodoOrder(t *testing.T, todos []types.Todo, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, TodoTitles(todos)); diff != "" {
		t.Errorf("todo order mismatch (-want +got):\n%s", diff)
	}
}

// AssertNotFound checks that err belongs to the not-found family
func AssertNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

// AssertUniqueViolation checks that err is a uniqueness conflict
func AssertUniqueViolation(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, types.ErrUniqueConstraintViolation) {
		t.Errorf("expected unique constraint violation, got %v", err)
	}
}

// AssertNoError fails the test immediately on err
func AssertNoError(t *testing.T, err error, context ...string) {
	t.Helper()
	if err != nil {
		ctx := ""
		if len(context) > 0 {
			ctx = context[0] + ": "
		}
		t.Fatalf("%sunexpected error: %v", ctx, err)
	}
}
