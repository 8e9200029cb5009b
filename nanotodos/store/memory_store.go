package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/arthur-debert/nanotodos/nanotodos/ids"
	"github.com/arthur-debert/nanotodos/nanotodos/storage"
	"github.com/arthur-debert/nanotodos/types"
)

// memoryStore keeps lists in process memory. Reads hand out snapshots, so
// nothing a caller does to a returned value reaches the store. With a file
// path configured, every write reloads the snapshot file under a
// cross-process lock, applies the change and rewrites the file atomically.
type memoryStore struct {
	lm   *storage.LockManager
	data *storage.StoreData
	ids  *ids.Generator

	filePath    string
	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock

	timeFunc func() time.Time
	logger   *slog.Logger
}

// NewMemoryStore creates an in-memory store. Pass WithFile to persist it.
func NewMemoryStore(opts ...MemoryStoreOption) (Store, error) {
	return newMemoryStore(opts...)
}

func newMemoryStore(opts ...MemoryStoreOption) (*memoryStore, error) {
	s := &memoryStore{
		lm:       storage.NewLockManager(),
		ids:      ids.NewGenerator(1),
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.data = storage.NewStoreData(s.timeFunc())

	if s.filePath == "" {
		return s, nil
	}

	if s.fs == nil {
		s.fs = OSFileSystem{}
	}
	if s.lockFactory == nil {
		s.lockFactory = FlockFactory{}
	}
	s.fileLock = s.lockFactory.New(s.filePath + ".lock")

	err := withFileLock(context.Background(), s.fileLock, s.load)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	return s, nil
}

// load replaces the in-memory data with the snapshot file, if any.
// Caller holds the file lock.
func (s *memoryStore) load() error {
	raw, err := readIfExists(s.fs, s.filePath)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	data := storage.NewStoreData(s.timeFunc())
	if err := json.Unmarshal(raw, data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	for i := range data.Lists {
		data.Lists[i] = data.Lists[i].Clone()
	}
	s.data = data
	maxList, maxTodo := data.MaxIDs()
	s.ids.Observe(max(maxList, maxTodo))
	return nil
}

// save writes the in-memory data to the snapshot file. Caller holds the
// file lock.
func (s *memoryStore) save() error {
	s.data.Metadata.UpdatedAt = s.timeFunc()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeAtomic(s.fs, s.filePath, raw)
}

func (s *memoryStore) read(ctx context.Context, fn func(d *storage.StoreData) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.lm.Execute(storage.ReadOperation, func() error { return fn(s.data) })
}

// write applies fn under the write lock. For file-backed stores the change
// is applied to freshly loaded data and persisted before the lock is
// released; a failed save restores the previous state.
func (s *memoryStore) write(ctx context.Context, op string, fn func(d *storage.StoreData) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.lm.Execute(storage.WriteOperation, func() error {
		if s.filePath == "" {
			return fn(s.data)
		}
		return withFileLock(ctx, s.fileLock, func() error {
			if err := s.load(); err != nil {
				return err
			}
			prev := cloneData(s.data)
			if err := fn(s.data); err != nil {
				s.data = prev
				return err
			}
			if err := s.save(); err != nil {
				s.data = prev
				s.logger.Error("snapshot save failed", "operation", op, "path", s.filePath, "error", err)
				return err
			}
			s.logger.Debug("snapshot saved", "operation", op, "path", s.filePath)
			return nil
		})
	})
}

func cloneData(d *storage.StoreData) *storage.StoreData {
	cp := *d
	cp.Lists = make([]types.TodoList, len(d.Lists))
	for i, list := range d.Lists {
		cp.Lists[i] = list.Clone()
	}
	cp.Users = slices.Clone(d.Users)
	return &cp
}

func listIndex(d *storage.StoreData, id int64) int {
	return slices.IndexFunc(d.Lists, func(l types.TodoList) bool { return l.ID == id })
}

func todoIndex(list *types.TodoList, id int64) int {
	return slices.IndexFunc(list.Todos, func(t types.Todo) bool { return t.ID == id })
}

func titleTaken(d *storage.StoreData, title string, except int64) bool {
	return slices.ContainsFunc(d.Lists, func(l types.TodoList) bool {
		return l.Title == title && l.ID != except
	})
}

// LoadList implements Store.LoadList
func (s *memoryStore) LoadList(ctx context.Context, listID int64) (*types.TodoList, error) {
	var out *types.TodoList
	err := s.read(ctx, func(d *storage.StoreData) error {
		i := listIndex(d, listID)
		if i < 0 {
			return types.ErrListNotFound
		}
		list := d.Lists[i].Clone()
		out = &list
		return nil
	})
	return out, err
}

// LoadTodo implements Store.LoadTodo
func (s *memoryStore) LoadTodo(ctx context.Context, listID, todoID int64) (*types.Todo, error) {
	var out *types.Todo
	err := s.read(ctx, func(d *storage.StoreData) error {
		i := listIndex(d, listID)
		if i < 0 {
			return types.ErrTodoNotFound
		}
		todo, ok := d.Lists[i].FindTodo(todoID)
		if !ok {
			return types.ErrTodoNotFound
		}
		out = &todo
		return nil
	})
	return out, err
}

// AllLists implements Store.AllLists
func (s *memoryStore) AllLists(ctx context.Context) ([]types.TodoList, error) {
	var out []types.TodoList
	err := s.read(ctx, func(d *storage.StoreData) error {
		out = make([]types.TodoList, len(d.Lists))
		for i, list := range d.Lists {
			out[i] = list.Clone()
		}
		return nil
	})
	return out, err
}

// ListTodos implements Store.ListTodos
func (s *memoryStore) ListTodos(ctx context.Context, listID int64) ([]types.Todo, error) {
	out := []types.Todo{}
	err := s.read(ctx, func(d *storage.StoreData) error {
		if i := listIndex(d, listID); i >= 0 {
			out = d.Lists[i].Clone().Todos
		}
		return nil
	})
	return out, err
}

// AddList implements Store.AddList
func (s *memoryStore) AddList(ctx context.Context, title string) (int64, error) {
	var id int64
	err := s.write(ctx, "add_list", func(d *storage.StoreData) error {
		if titleTaken(d, title, 0) {
			return &types.ConstraintError{Field: "todolists.title", Value: title}
		}
		id = s.ids.Next()
		d.Lists = append(d.Lists, types.TodoList{ID: id, Title: title, Todos: []types.Todo{}})
		return nil
	})
	return id, err
}

// DeleteList implements Store.DeleteList
func (s *memoryStore) DeleteList(ctx context.Context, listID int64) error {
	return s.write(ctx, "delete_list", func(d *storage.StoreData) error {
		d.Lists = slices.DeleteFunc(d.Lists, func(l types.TodoList) bool { return l.ID == listID })
		return nil
	})
}

// RenameList implements Store.RenameList
func (s *memoryStore) RenameList(ctx context.Context, listID int64, title string) error {
	return s.write(ctx, "rename_list", func(d *storage.StoreData) error {
		i := listIndex(d, listID)
		if i < 0 {
			return nil
		}
		if titleTaken(d, title, listID) {
			return &types.ConstraintError{Field: "todolists.title", Value: title}
		}
		d.Lists[i].Title = title
		return nil
	})
}

// AddTodo implements Store.AddTodo
func (s *memoryStore) AddTodo(ctx context.Context, listID int64, title string) (int64, error) {
	var id int64
	err := s.write(ctx, "add_todo", func(d *storage.StoreData) error {
		i := listIndex(d, listID)
		if i < 0 {
			return types.ErrListNotFound
		}
		id = s.ids.Next()
		d.Lists[i].Todos = append(d.Lists[i].Todos, types.Todo{ID: id, ListID: listID, Title: title})
		return nil
	})
	return id, err
}

// DeleteTodo implements Store.DeleteTodo
func (s *memoryStore) DeleteTodo(ctx context.Context, listID, todoID int64) error {
	return s.write(ctx, "delete_todo", func(d *storage.StoreData) error {
		if i := listIndex(d, listID); i >= 0 {
			d.Lists[i].Todos = slices.DeleteFunc(d.Lists[i].Todos, func(t types.Todo) bool { return t.ID == todoID })
		}
		return nil
	})
}

// ToggleTodo implements Store.ToggleTodo
func (s *memoryStore) ToggleTodo(ctx context.Context, listID, todoID int64) error {
	return s.write(ctx, "toggle_todo", func(d *storage.StoreData) error {
		i := listIndex(d, listID)
		if i < 0 {
			return nil
		}
		if j := todoIndex(&d.Lists[i], todoID); j >= 0 {
			d.Lists[i].Todos[j].Done = !d.Lists[i].Todos[j].Done
		}
		return nil
	})
}

// CompleteAllTodos implements Store.CompleteAllTodos
func (s *memoryStore) CompleteAllTodos(ctx context.Context, listID int64) error {
	return s.write(ctx, "complete_all", func(d *storage.StoreData) error {
		i := listIndex(d, listID)
		if i < 0 {
			return nil
		}
		for j := range d.Lists[i].Todos {
			if !d.Lists[i].Todos[j].Done {
				d.Lists[i].Todos[j].Done = true
			}
		}
		return nil
	})
}

// ExistsListTitle implements Store.ExistsListTitle
func (s *memoryStore) ExistsListTitle(ctx context.Context, title string) (bool, error) {
	return storageQuery(ctx, s, func(d *storage.StoreData) bool {
		return titleTaken(d, title, 0)
	})
}

// AddUser implements Store.AddUser
func (s *memoryStore) AddUser(ctx context.Context, username, passwordHash string) error {
	return s.write(ctx, "add_user", func(d *storage.StoreData) error {
		if slices.ContainsFunc(d.Users, func(u types.User) bool { return u.Username == username }) {
			return &types.ConstraintError{Field: "users.username", Value: username}
		}
		d.Users = append(d.Users, types.User{Username: username, PasswordHash: passwordHash})
		return nil
	})
}

// PasswordHash implements Store.PasswordHash
func (s *memoryStore) PasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := s.read(ctx, func(d *storage.StoreData) error {
		i := slices.IndexFunc(d.Users, func(u types.User) bool { return u.Username == username })
		if i < 0 {
			return types.ErrUserNotFound
		}
		hash = d.Users[i].PasswordHash
		return nil
	})
	return hash, err
}

// Close implements Store.Close
func (s *memoryStore) Close() error {
	return nil
}

func storageQuery[T any](ctx context.Context, s *memoryStore, fn func(d *storage.StoreData) T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return storage.Query(s.lm, storage.ReadOperation, func() (T, error) {
		return fn(s.data), nil
	})
}
