package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestTodoListClone(t *testing.T) {
	t.Run("copy does not share todos", func(t *testing.T) {
		orig := TodoList{ID: 1, Title: "Work", Todos: []Todo{{ID: 2, ListID: 1, Title: "coffee"}}}

		cp := orig.Clone()
		cp.Todos[0].Done = true
		cp.Todos = append(cp.Todos, Todo{ID: 3, ListID: 1, Title: "meeting"})

		if orig.Todos[0].Done {
			t.Error("mutating the clone changed the original todo")
		}
		if len(orig.Todos) != 1 {
			t.Errorf("expected original to keep 1 todo, got %d", len(orig.Todos))
		}
	})

	t.Run("nil todos become empty slice", func(t *testing.T) {
		cp := TodoList{ID: 1, Title: "Empty"}.Clone()
		if cp.Todos == nil {
			t.Error("expected non-nil todos slice")
		}
	})
}

func TestTodoListHelpers(t *testing.T) {
	list := TodoList{ID: 1, Todos: []Todo{
		{ID: 10, Title: "a", Done: true},
		{ID: 11, Title: "b"},
		{ID: 12, Title: "c", Done: true},
	}}

	if got := list.CountDone(); got != 2 {
		t.Errorf("expected 2 done, got %d", got)
	}
	if todo, ok := list.FindTodo(11); !ok || todo.Title != "b" {
		t.Errorf("expected to find todo 11, got %+v (ok=%v)", todo, ok)
	}
	if _, ok := list.FindTodo(99); ok {
		t.Error("expected todo 99 to be missing")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
		unique   bool
	}{
		{"list not found", ErrListNotFound, true, false},
		{"wrapped todo not found", fmt.Errorf("load: %w", ErrTodoNotFound), true, false},
		{"user not found", ErrUserNotFound, true, false},
		{"constraint error", &ConstraintError{Field: "todolists.title", Value: "Work"}, false, true},
		{"wrapped constraint error", fmt.Errorf("add list: %w", &ConstraintError{Field: "todolists.title"}), false, true},
		{"unrelated", errors.New("connection refused"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, ErrNotFound); got != tt.notFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", got, tt.notFound)
			}
			if got := errors.Is(tt.err, ErrUniqueConstraintViolation); got != tt.unique {
				t.Errorf("errors.Is(ErrUniqueConstraintViolation) = %v, want %v", got, tt.unique)
			}
		})
	}
}

func TestConstraintErrorMessage(t *testing.T) {
	driver := errors.New("UNIQUE constraint failed: todolists.title")
	err := &ConstraintError{Field: "todolists.title", Value: "Work", Err: driver}

	want := `unique constraint violation on todolists.title ("Work"): UNIQUE constraint failed: todolists.title`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, driver) {
		t.Error("expected driver error to be reachable through Unwrap")
	}
}
