// Package nanotodos is the query and mutation façade over a todo list
// store. It adds the derived views callers need (sorted lists and todos,
// completion status, summaries), validity predicates for untrusted ids,
// uniqueness-conflict classification and password authentication.
//
// A Todos value wraps one store handle and holds no other state, so it is
// cheap to create per request or per command:
//
//	st, err := store.Open(store.Config{Driver: store.DriverSQLite, Path: "todos.db"})
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	todos := nanotodos.New(st)
//	lists, err := todos.SortedLists(ctx)
package nanotodos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/arthur-debert/nanotodos/nanotodos/ordering"
	"github.com/arthur-debert/nanotodos/nanotodos/store"
	"github.com/arthur-debert/nanotodos/search"
	"github.com/arthur-debert/nanotodos/types"
	"golang.org/x/crypto/bcrypt"
)

// Todos is the façade over a Store.
type Todos struct {
	store      store.Store
	logger     *slog.Logger
	bcryptCost int
}

// Option configures a Todos instance
type Option func(*Todos)

// WithLogger sets the façade logger
func WithLogger(logger *slog.Logger) Option {
	return func(t *Todos) {
		t.logger = logger
	}
}

// WithBcryptCost sets the cost used when hashing new passwords. Values
// outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(t *Todos) {
		t.bcryptCost = cost
	}
}

// New wraps st. The caller keeps ownership of st and closes it.
func New(st store.Store, opts ...Option) *Todos {
	t := &Todos{
		store:      st,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.bcryptCost < bcrypt.MinCost || t.bcryptCost > bcrypt.MaxCost {
		t.bcryptCost = bcrypt.DefaultCost
	}
	return t
}

// Store returns the wrapped store.
func (t *Todos) Store() store.Store {
	return t.store
}

// ParseID converts an untrusted id string. Anything that is not a positive
// integer becomes 0, which no list or todo ever has.
func ParseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// IsUniqueConstraintViolation reports whether err is a uniqueness conflict.
// Errors classified by a store match through errors.Is; anything else is
// checked against the wording SQL engines use.
func IsUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, types.ErrUniqueConstraintViolation) {
		return true
	}
	return store.LooksLikeUniqueViolation(err)
}

// found turns a not-found error into false and passes other errors through.
func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, types.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// IsValidList reports whether listID names an existing list.
func (t *Todos) IsValidList(ctx context.Context, listID int64) (bool, error) {
	if listID <= 0 {
		return false, nil
	}
	_, err := t.store.LoadList(ctx, listID)
	return found(err)
}

// IsValidListAndTodo reports whether todoID names a todo inside listID. A
// todo that exists in a different list is not valid.
func (t *Todos) IsValidListAndTodo(ctx context.Context, listID, todoID int64) (bool, error) {
	if listID <= 0 || todoID <= 0 {
		return false, nil
	}
	_, err := t.store.LoadTodo(ctx, listID, todoID)
	return found(err)
}

// IsDoneList reports whether the list has todos and all are done.
func (t *Todos) IsDoneList(list types.TodoList) bool {
	return ordering.IsDone(list)
}

// HasUndoneTodos reports whether any todo in the list is not done.
func (t *Todos) HasUndoneTodos(list types.TodoList) bool {
	return ordering.HasUndone(list)
}

// SortedLists returns every list with its todos, undone lists first and
// each group ordered by case-insensitive title. Todos inside each list are
// left in store order.
func (t *Todos) SortedLists(ctx context.Context) ([]types.TodoList, error) {
	lists, err := t.store.AllLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}
	return ordering.PartitionAndSortLists(lists), nil
}

// SortedTodos re-fetches the list's todos and returns them not-done first,
// each group ordered by case-insensitive title.
func (t *Todos) SortedTodos(ctx context.Context, list types.TodoList) ([]types.Todo, error) {
	todos, err := t.store.ListTodos(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}
	return ordering.SortTodos(todos), nil
}

// ListSummary is a list together with the counts shown next to it.
type ListSummary struct {
	List   types.TodoList `json:"list" yaml:"list"`
	Total  int            `json:"total" yaml:"total"`
	Done   int            `json:"done" yaml:"done"`
	IsDone bool           `json:"is_done" yaml:"is_done"`
}

// Summaries returns a summary per list in SortedLists order.
func (t *Todos) Summaries(ctx context.Context) ([]ListSummary, error) {
	lists, err := t.SortedLists(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ListSummary, len(lists))
	for i, list := range lists {
		out[i] = ListSummary{
			List:   list,
			Total:  len(list.Todos),
			Done:   list.CountDone(),
			IsDone: ordering.IsDone(list),
		}
	}
	return out, nil
}

// Search finds list and todo titles matching options.Query, best first.
func (t *Todos) Search(ctx context.Context, options search.Options) ([]search.Result, error) {
	results, err := search.NewEngine(t.store).Search(ctx, options)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("search", "query", options.Query, "results", len(results))
	return results, nil
}

func titleConflict(title string, err error) error {
	return &types.ConstraintError{Field: "todolists.title", Value: title, Err: err}
}

// classify makes sure a uniqueness failure matches
// types.ErrUniqueConstraintViolation even if only its text says so.
func classify(title string, err error) error {
	if err == nil || errors.Is(err, types.ErrUniqueConstraintViolation) {
		return err
	}
	if IsUniqueConstraintViolation(err) {
		return titleConflict(title, err)
	}
	return err
}

// CreateList adds a list after checking that the title is free. A title
// taken between the check and the insert is reported the same way as one
// taken before it.
func (t *Todos) CreateList(ctx context.Context, title string) (int64, error) {
	taken, err := t.store.ExistsListTitle(ctx, title)
	if err != nil {
		return 0, fmt.Errorf("failed to check title: %w", err)
	}
	if taken {
		return 0, titleConflict(title, nil)
	}

	id, err := t.store.AddList(ctx, title)
	if err != nil {
		err = classify(title, err)
		if IsUniqueConstraintViolation(err) {
			t.logger.Debug("list title taken concurrently", "title", title)
		}
		return 0, err
	}
	t.logger.Debug("list created", "list_id", id, "title", title)
	return id, nil
}

// Rename changes a list title. Any existing list with that title, the
// renamed list included, is a conflict.
func (t *Todos) Rename(ctx context.Context, listID int64, title string) error {
	ok, err := t.IsValidList(ctx, listID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrListNotFound
	}

	taken, err := t.store.ExistsListTitle(ctx, title)
	if err != nil {
		return fmt.Errorf("failed to check title: %w", err)
	}
	if taken {
		return titleConflict(title, nil)
	}

	if err := t.store.RenameList(ctx, listID, title); err != nil {
		return classify(title, err)
	}
	t.logger.Debug("list renamed", "list_id", listID, "title", title)
	return nil
}

// LoadList returns one list with its todos in store order.
func (t *Todos) LoadList(ctx context.Context, listID int64) (*types.TodoList, error) {
	return t.store.LoadList(ctx, listID)
}

// LoadTodo returns one todo scoped to its list.
func (t *Todos) LoadTodo(ctx context.Context, listID, todoID int64) (*types.Todo, error) {
	return t.store.LoadTodo(ctx, listID, todoID)
}

// AddList adds a list without the uniqueness pre-check; see CreateList.
func (t *Todos) AddList(ctx context.Context, title string) (int64, error) {
	return t.store.AddList(ctx, title)
}

// DeleteList removes a list and its todos.
func (t *Todos) DeleteList(ctx context.Context, listID int64) error {
	return t.store.DeleteList(ctx, listID)
}

// RenameList renames without the uniqueness pre-check; see Rename.
func (t *Todos) RenameList(ctx context.Context, listID int64, title string) error {
	return t.store.RenameList(ctx, listID, title)
}

// AddTodo appends a not-done todo to a list.
func (t *Todos) AddTodo(ctx context.Context, listID int64, title string) (int64, error) {
	return t.store.AddTodo(ctx, listID, title)
}

// DeleteTodo removes a todo.
func (t *Todos) DeleteTodo(ctx context.Context, listID, todoID int64) error {
	return t.store.DeleteTodo(ctx, listID, todoID)
}

// ToggleTodo flips a todo between done and not done.
func (t *Todos) ToggleTodo(ctx context.Context, listID, todoID int64) error {
	return t.store.ToggleTodo(ctx, listID, todoID)
}

// CompleteAllTodos marks every todo of a list done.
func (t *Todos) CompleteAllTodos(ctx context.Context, listID int64) error {
	return t.store.CompleteAllTodos(ctx, listID)
}

// ExistsListTitle reports whether a list with exactly this title exists.
func (t *Todos) ExistsListTitle(ctx context.Context, title string) (bool, error) {
	return t.store.ExistsListTitle(ctx, title)
}

// AddUser stores a login with a bcrypt hash of password.
func (t *Todos) AddUser(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("username is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), t.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return t.store.AddUser(ctx, username, string(hash))
}

// Authenticate reports whether password matches the stored login. An
// unknown user and a wrong password both give false with no error; only
// store failures are errors.
func (t *Todos) Authenticate(ctx context.Context, username, password string) (bool, error) {
	hash, err := t.store.PasswordHash(ctx, username)
	if errors.Is(err, types.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.logger.Warn("stored password hash is unusable", "username", username, "error", err)
	}
	return err == nil, nil
}
