// Package testutil opens stores for tests and loads the demo data set into
// them, so tests can run the same checks against every backend.
package testutil

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/nanotodos/nanotodos"
	"github.com/arthur-debert/nanotodos/nanotodos/store"
	"github.com/arthur-debert/nanotodos/types"
	"golang.org/x/crypto/bcrypt"
)

// Universe is the seeded demo data, loaded back from the store.
type Universe struct {
	Work       types.TodoList // "Work Todos": 2 of 3 done
	Home       types.TodoList // "Home Todos": all 4 done
	Additional types.TodoList // "Additional Todos": empty
	Social     types.TodoList // "social todos": 1 undone
}

// OpenStore opens a fresh store for driver. File-backed drivers live in
// t.TempDir. The store is closed when the test ends.
func OpenStore(t *testing.T, driver store.Driver) store.Store {
	t.Helper()
	cfg := store.Config{
		Driver: driver,
		Logger: slog.New(slog.DiscardHandler),
	}
	switch driver {
	case store.DriverSQLite:
		cfg.Path = filepath.Join(t.TempDir(), "todos.db")
	case store.DriverJSON:
		cfg.Path = filepath.Join(t.TempDir(), "todos.json")
	}

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open %s store: %v", driver, err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// ForEachBackend runs fn as a subtest against a fresh store of every driver.
func ForEachBackend(t *testing.T, fn func(t *testing.T, st store.Store)) {
	t.Helper()
	for _, driver := range store.Drivers {
		t.Run(string(driver), func(t *testing.T) {
			fn(t, OpenStore(t, driver))
		})
	}
}

// NewTodos wraps st in a façade with a quiet logger and the cheapest bcrypt
// cost.
func NewTodos(st store.Store) *nanotodos.Todos {
	return nanotodos.New(st,
		nanotodos.WithLogger(slog.New(slog.DiscardHandler)),
		nanotodos.WithBcryptCost(bcrypt.MinCost),
	)
}

// LoadUniverse seeds st with the demo lists and returns them as stored.
func LoadUniverse(t *testing.T, st store.Store) *Universe {
	t.Helper()
	ctx := context.Background()

	if _, err := NewTodos(st).Seed(ctx); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	lists, err := st.AllLists(ctx)
	if err != nil {
		t.Fatalf("failed to load seeded lists: %v", err)
	}

	byTitle := make(map[string]types.TodoList, len(lists))
	for _, l := range lists {
		byTitle[l.Title] = l
	}
	get := func(title string) types.TodoList {
		l, ok := byTitle[title]
		if !ok {
			t.Fatalf("seeded list %q missing", title)
		}
		return l
	}

	return &Universe{
		Work:       get("Work Todos"),
		Home:       get("Home Todos"),
		Additional: get("Additional Todos"),
		Social:     get("social todos"),
	}
}

// TodoID returns the id of the todo with the given title in list.
func (u *Universe) TodoID(t *testing.T, list types.TodoList, title string) int64 {
	t.Helper()
	for _, todo := range list.Todos {
		if todo.Title == title {
			return todo.ID
		}
	}
	t.Fatalf("todo %q not in list %q", title, list.Title)
	return 0
}
