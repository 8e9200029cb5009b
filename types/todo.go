package types

import "slices"

// TodoList is a named collection of todos. Todos belong exclusively to
// their list; deleting the list deletes them.
type TodoList struct {
	ID    int64  `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Todos []Todo `json:"todos" yaml:"todos"`
}

// Todo is a single item inside a TodoList.
type Todo struct {
	ID     int64  `json:"id" yaml:"id"`
	ListID int64  `json:"todolist_id" yaml:"todolist_id"`
	Title  string `json:"title" yaml:"title"`
	Done   bool   `json:"done" yaml:"done"`
}

// User is a stored login. PasswordHash is a salted bcrypt hash, never the
// plain password.
type User struct {
	Username     string `json:"username" yaml:"username"`
	PasswordHash string `json:"password" yaml:"-"`
}

// Clone returns an independent copy of the list. Mutating the copy's todos
// never affects the original.
func (l TodoList) Clone() TodoList {
	l.Todos = slices.Clone(l.Todos)
	if l.Todos == nil {
		l.Todos = []Todo{}
	}
	return l
}

// FindTodo returns the todo with the given id, if the list holds it.
func (l TodoList) FindTodo(id int64) (Todo, bool) {
	for _, todo := range l.Todos {
		if todo.ID == id {
			return todo, true
		}
	}
	return Todo{}, false
}

// CountDone returns how many of the list's todos are done.
func (l TodoList) CountDone() int {
	n := 0
	for _, todo := range l.Todos {
		if todo.Done {
			n++
		}
	}
	return n
}
