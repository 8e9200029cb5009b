package store

import (
	"github.com/Masterminds/squirrel"
)

const (
	listsTable = "todolists"
	todosTable = "todos"
	usersTable = "users"
)

// sqlBuilder wraps squirrel so every statement the SQL store runs is built
// in one place with bound parameters.
type sqlBuilder struct {
	sq squirrel.StatementBuilderType
}

func newSQLBuilder() *sqlBuilder {
	return &sqlBuilder{
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (b *sqlBuilder) selectList(listID int64) squirrel.Sqlizer {
	return b.sq.Select("id", "title").From(listsTable).Where(squirrel.Eq{"id": listID})
}

func (b *sqlBuilder) selectAllLists() squirrel.Sqlizer {
	return b.sq.Select("id", "title").From(listsTable).OrderBy("lower(title) ASC", "id ASC")
}

func (b *sqlBuilder) selectTodos(listID int64) squirrel.Sqlizer {
	return b.sq.Select("id", "todolist_id", "title", "done").
		From(todosTable).
		Where(squirrel.Eq{"todolist_id": listID}).
		OrderBy("done ASC", "lower(title) ASC", "id ASC")
}

func (b *sqlBuilder) selectTodo(listID, todoID int64) squirrel.Sqlizer {
	return b.sq.Select("id", "todolist_id", "title", "done").
		From(todosTable).
		Where(squirrel.Eq{"todolist_id": listID, "id": todoID})
}

func (b *sqlBuilder) countListTitle(title string) squirrel.Sqlizer {
	return b.sq.Select("COUNT(*)").From(listsTable).Where(squirrel.Eq{"title": title})
}

func (b *sqlBuilder) insertList(title string) squirrel.Sqlizer {
	return b.sq.Insert(listsTable).Columns("title").Values(title)
}

func (b *sqlBuilder) deleteList(listID int64) squirrel.Sqlizer {
	return b.sq.Delete(listsTable).Where(squirrel.Eq{"id": listID})
}

func (b *sqlBuilder) renameList(listID int64, title string) squirrel.Sqlizer {
	return b.sq.Update(listsTable).Set("title", title).Where(squirrel.Eq{"id": listID})
}

func (b *sqlBuilder) insertTodo(listID int64, title string) squirrel.Sqlizer {
	return b.sq.Insert(todosTable).Columns("todolist_id", "title").Values(listID, title)
}

func (b *sqlBuilder) deleteTodo(listID, todoID int64) squirrel.Sqlizer {
	return b.sq.Delete(todosTable).Where(squirrel.Eq{"todolist_id": listID, "id": todoID})
}

func (b *sqlBuilder) toggleTodo(listID, todoID int64) squirrel.Sqlizer {
	return b.sq.Update(todosTable).
		Set("done", squirrel.Expr("NOT done")).
		Where(squirrel.Eq{"todolist_id": listID, "id": todoID})
}

func (b *sqlBuilder) completeAll(listID int64) squirrel.Sqlizer {
	return b.sq.Update(todosTable).
		Set("done", true).
		Where(squirrel.Eq{"todolist_id": listID}).
		Where("NOT done")
}

func (b *sqlBuilder) insertUser(username, passwordHash string) squirrel.Sqlizer {
	return b.sq.Insert(usersTable).Columns("username", "password").Values(username, passwordHash)
}

func (b *sqlBuilder) selectPassword(username string) squirrel.Sqlizer {
	return b.sq.Select("password").From(usersTable).Where(squirrel.Eq{"username": username})
}
