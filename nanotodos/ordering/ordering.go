// Package ordering decides the order lists and todos are shown in.
// Undone work comes first; inside each group titles are compared
// case-insensitively. All functions are pure: inputs are never mutated and
// results are fresh slices.
package ordering

import (
	"slices"
	"strings"

	"github.com/arthur-debert/nanotodos/types"
	"golang.org/x/text/cases"
)

// FoldTitle returns the case-folded form of a title used for comparisons.
func FoldTitle(title string) string {
	// Casers keep state, so a fresh one per call keeps this goroutine safe.
	return cases.Fold().String(title)
}

// IsDone reports whether the list has at least one todo and all of them are
// done. An empty list is never done.
func IsDone(list types.TodoList) bool {
	if len(list.Todos) == 0 {
		return false
	}
	for _, todo := range list.Todos {
		if !todo.Done {
			return false
		}
	}
	return true
}

// HasUndone reports whether any todo in the list is not done.
func HasUndone(list types.TodoList) bool {
	return slices.ContainsFunc(list.Todos, func(todo types.Todo) bool { return !todo.Done })
}

type keyed[T any] struct {
	key  string
	item T
}

// sortByTitle stable-sorts items by folded title.
func sortByTitle[T any](items []T, title func(T) string) []T {
	ks := make([]keyed[T], len(items))
	for i, it := range items {
		ks[i] = keyed[T]{key: FoldTitle(title(it)), item: it}
	}
	slices.SortStableFunc(ks, func(a, b keyed[T]) int {
		return strings.Compare(a.key, b.key)
	})
	out := make([]T, len(ks))
	for i, k := range ks {
		out[i] = k.item
	}
	return out
}

// PartitionAndSortLists returns undone lists followed by done lists, each
// group ordered by case-insensitive title. Equal titles keep input order.
func PartitionAndSortLists(lists []types.TodoList) []types.TodoList {
	var undone, done []types.TodoList
	for _, list := range lists {
		if IsDone(list) {
			done = append(done, list)
		} else {
			undone = append(undone, list)
		}
	}

	byTitle := func(l types.TodoList) string { return l.Title }
	out := make([]types.TodoList, 0, len(lists))
	out = append(out, sortByTitle(undone, byTitle)...)
	out = append(out, sortByTitle(done, byTitle)...)
	return out
}

// SortTodos orders todos by (done, folded title) ascending: not-done first,
// alphabetical within each group.
func SortTodos(todos []types.Todo) []types.Todo {
	out := sortByTitle(todos, func(t types.Todo) string { return t.Title })
	// Stable second pass on done keeps the title order inside each group.
	slices.SortStableFunc(out, func(a, b types.Todo) int {
		switch {
		case a.Done == b.Done:
			return 0
		case !a.Done:
			return -1
		default:
			return 1
		}
	})
	return out
}
