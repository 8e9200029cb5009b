package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/arthur-debert/nanotodos/types"
	"github.com/sourcegraph/conc/pool"
	_ "modernc.org/sqlite"
)

//go:embed sql/schema.sql
var schemaSQL string

const defaultMaxFetches = 8

// sqlStore implements Store on SQLite. The engine assigns ids, enforces
// title uniqueness and cascades list deletion to todos.
type sqlStore struct {
	db         *sql.DB
	sb         *sqlBuilder
	logger     *slog.Logger
	maxFetches int
}

// NewSQLStore opens (creating if needed) the SQLite database at dbPath.
// ":memory:" gives a private in-memory database.
func NewSQLStore(dbPath string, opts ...SQLStoreOption) (Store, error) {
	return newSQLStore(dbPath, opts...)
}

func newSQLStore(dbPath string, opts ...SQLStoreOption) (*sqlStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, pragmas are per
	// connection, and an in-memory database lives only as long as its
	// connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	pragmas := []string{"PRAGMA foreign_keys = ON"}
	if dbPath != ":memory:" {
		pragmas = append(pragmas,
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			if pragma == "PRAGMA journal_mode = WAL" && strings.Contains(err.Error(), "database is locked") {
				continue
			}
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &sqlStore{
		db:         db,
		sb:         newSQLBuilder(),
		maxFetches: defaultMaxFetches,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Close releases database resources
func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) build(op string, q squirrel.Sqlizer) (string, []interface{}, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}
	s.logger.Debug("sql_query", "operation", op, "sql", query, "args", args)
	return query, args, nil
}

func (s *sqlStore) exec(ctx context.Context, op string, q squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := s.build(op, q)
	if err != nil {
		return nil, err
	}
	return s.db.ExecContext(ctx, query, args...)
}

func (s *sqlStore) queryTodos(ctx context.Context, op string, q squirrel.Sqlizer) ([]types.Todo, error) {
	query, args, err := s.build(op, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	todos := []types.Todo{}
	for rows.Next() {
		var t types.Todo
		if err := rows.Scan(&t.ID, &t.ListID, &t.Title, &t.Done); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read todos: %w", err)
	}
	return todos, nil
}

// fetchList returns the list row without todos, nil if it does not exist.
func (s *sqlStore) fetchList(ctx context.Context, listID int64) (*types.TodoList, error) {
	query, args, err := s.build("load_list", s.sb.selectList(listID))
	if err != nil {
		return nil, err
	}
	var list types.TodoList
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&list.ID, &list.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query list: %w", err)
	}
	return &list, nil
}

// LoadList implements Store.LoadList. The list row and its todos are
// fetched concurrently.
func (s *sqlStore) LoadList(ctx context.Context, listID int64) (*types.TodoList, error) {
	var (
		list  *types.TodoList
		todos []types.Todo
	)
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		list, err = s.fetchList(ctx, listID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		todos, err = s.queryTodos(ctx, "load_list_todos", s.sb.selectTodos(listID))
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	if list == nil {
		return nil, types.ErrListNotFound
	}
	list.Todos = todos
	return list, nil
}

// LoadTodo implements Store.LoadTodo
func (s *sqlStore) LoadTodo(ctx context.Context, listID, todoID int64) (*types.Todo, error) {
	todos, err := s.queryTodos(ctx, "load_todo", s.sb.selectTodo(listID, todoID))
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return nil, types.ErrTodoNotFound
	}
	return &todos[0], nil
}

// AllLists implements Store.AllLists. Todos for every list are fetched
// concurrently once the list rows are known.
func (s *sqlStore) AllLists(ctx context.Context) ([]types.TodoList, error) {
	query, args, err := s.build("all_lists", s.sb.selectAllLists())
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}

	lists := []types.TodoList{}
	for rows.Next() {
		var list types.TodoList
		if err := rows.Scan(&list.ID, &list.Title); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}
	err = rows.Err()
	// Close before fanning out: the pool has a single connection.
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read lists: %w", err)
	}

	p := pool.New().WithMaxGoroutines(s.maxFetches).WithContext(ctx).WithCancelOnError().WithFirstError()
	for i := range lists {
		p.Go(func(ctx context.Context) error {
			todos, err := s.queryTodos(ctx, "all_lists_todos", s.sb.selectTodos(lists[i].ID))
			if err != nil {
				return err
			}
			lists[i].Todos = todos
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

// ListTodos implements Store.ListTodos
func (s *sqlStore) ListTodos(ctx context.Context, listID int64) ([]types.Todo, error) {
	return s.queryTodos(ctx, "list_todos", s.sb.selectTodos(listID))
}

// AddList implements Store.AddList
func (s *sqlStore) AddList(ctx context.Context, title string) (int64, error) {
	res, err := s.exec(ctx, "add_list", s.sb.insertList(title))
	if err != nil {
		return 0, fmt.Errorf("failed to insert list: %w", convertDriverError(err, "todolists.title", title))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read list id: %w", err)
	}
	return id, nil
}

// DeleteList implements Store.DeleteList. Todos go with it through the
// foreign key cascade.
func (s *sqlStore) DeleteList(ctx context.Context, listID int64) error {
	if _, err := s.exec(ctx, "delete_list", s.sb.deleteList(listID)); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// RenameList implements Store.RenameList
func (s *sqlStore) RenameList(ctx context.Context, listID int64, title string) error {
	if _, err := s.exec(ctx, "rename_list", s.sb.renameList(listID, title)); err != nil {
		return fmt.Errorf("failed to rename list: %w", convertDriverError(err, "todolists.title", title))
	}
	return nil
}

// AddTodo implements Store.AddTodo
func (s *sqlStore) AddTodo(ctx context.Context, listID int64, title string) (int64, error) {
	res, err := s.exec(ctx, "add_todo", s.sb.insertTodo(listID, title))
	if err != nil {
		return 0, fmt.Errorf("failed to insert todo: %w", convertDriverError(err, "todos.title", title))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read todo id: %w", err)
	}
	return id, nil
}

// DeleteTodo implements Store.DeleteTodo
func (s *sqlStore) DeleteTodo(ctx context.Context, listID, todoID int64) error {
	if _, err := s.exec(ctx, "delete_todo", s.sb.deleteTodo(listID, todoID)); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// ToggleTodo implements Store.ToggleTodo
func (s *sqlStore) ToggleTodo(ctx context.Context, listID, todoID int64) error {
	if _, err := s.exec(ctx, "toggle_todo", s.sb.toggleTodo(listID, todoID)); err != nil {
		return fmt.Errorf("failed to toggle todo: %w", err)
	}
	return nil
}

// CompleteAllTodos implements Store.CompleteAllTodos
func (s *sqlStore) CompleteAllTodos(ctx context.Context, listID int64) error {
	if _, err := s.exec(ctx, "complete_all", s.sb.completeAll(listID)); err != nil {
		return fmt.Errorf("failed to complete todos: %w", err)
	}
	return nil
}

// ExistsListTitle implements Store.ExistsListTitle
func (s *sqlStore) ExistsListTitle(ctx context.Context, title string) (bool, error) {
	query, args, err := s.build("exists_list_title", s.sb.countListTitle(title))
	if err != nil {
		return false, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count titles: %w", err)
	}
	return n > 0, nil
}

// AddUser implements Store.AddUser
func (s *sqlStore) AddUser(ctx context.Context, username, passwordHash string) error {
	if _, err := s.exec(ctx, "add_user", s.sb.insertUser(username, passwordHash)); err != nil {
		return fmt.Errorf("failed to insert user: %w", convertDriverError(err, "users.username", username))
	}
	return nil
}

// PasswordHash implements Store.PasswordHash
func (s *sqlStore) PasswordHash(ctx context.Context, username string) (string, error) {
	query, args, err := s.build("password_hash", s.sb.selectPassword(username))
	if err != nil {
		return "", err
	}
	var hash string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", types.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query user: %w", err)
	}
	return hash, nil
}
