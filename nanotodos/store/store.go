// Package store owns the persisted todo lists and their todos. Every
// mutation goes through a Store and is persisted immediately; no mutation
// returns the changed entity, so callers reload when they need the new
// state.
//
// Two backends implement Store: a SQL store over SQLite, where the engine
// assigns surrogate keys and enforces uniqueness and cascades, and a memory
// store that can optionally persist a JSON snapshot to disk.
package store

import (
	"context"

	"github.com/arthur-debert/nanotodos/types"
)

// Store defines the persistence contract for todo lists.
//
// Load operations report a missing id with an error wrapping
// types.ErrNotFound. Mutations on ids that do not exist are the caller's
// responsibility to prevent; check with the facade's validity predicates
// first.
type Store interface {
	// LoadList returns the list with all of its todos attached, unsorted.
	// Returns types.ErrListNotFound if the id does not resolve.
	LoadList(ctx context.Context, listID int64) (*types.TodoList, error)

	// LoadTodo returns a todo scoped to the given list. Returns
	// types.ErrTodoNotFound if the list is missing or does not hold the todo.
	LoadTodo(ctx context.Context, listID, todoID int64) (*types.Todo, error)

	// AllLists returns every list with its todos attached.
	AllLists(ctx context.Context) ([]types.TodoList, error)

	// ListTodos returns the todos of one list. A missing list yields an
	// empty slice.
	ListTodos(ctx context.Context, listID int64) ([]types.Todo, error)

	// AddList creates an empty list and returns its id. A duplicate title
	// fails with an error wrapping types.ErrUniqueConstraintViolation.
	AddList(ctx context.Context, title string) (int64, error)

	// DeleteList removes the list and all of its todos.
	DeleteList(ctx context.Context, listID int64) error

	// RenameList changes a list title. Uniqueness is enforced only by the
	// backend constraint; callers check ExistsListTitle first.
	RenameList(ctx context.Context, listID int64, title string) error

	// AddTodo appends a not-done todo to the list and returns its id.
	// Returns types.ErrListNotFound if the list does not exist.
	AddTodo(ctx context.Context, listID int64, title string) (int64, error)

	// DeleteTodo removes one todo from its list.
	DeleteTodo(ctx context.Context, listID, todoID int64) error

	// ToggleTodo negates the todo's done flag.
	ToggleTodo(ctx context.Context, listID, todoID int64) error

	// CompleteAllTodos marks every not-done todo of the list as done.
	CompleteAllTodos(ctx context.Context, listID int64) error

	// ExistsListTitle reports whether a list with exactly this title exists.
	ExistsListTitle(ctx context.Context, title string) (bool, error)

	// AddUser stores a login. passwordHash must already be hashed.
	AddUser(ctx context.Context, username, passwordHash string) error

	// PasswordHash returns the stored hash for username, or an error
	// wrapping types.ErrUserNotFound.
	PasswordHash(ctx context.Context, username string) (string, error)

	// Close releases any resources held by the store
	Close() error
}
