package nanotodos_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/nanotodos/nanotodos"
	"github.com/arthur-debert/nanotodos/nanotodos/store"
	"github.com/arthur-debert/nanotodos/nanotodos/testutil"
	"github.com/arthur-debert/nanotodos/search"
	"github.com/arthur-debert/nanotodos/types"
)

func TestSortedLists(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		testutil.LoadUniverse(t, st)
		todos := testutil.NewTodos(st)

		lists, err := todos.SortedLists(ctx)
		testutil.AssertNoError(t, err)
		testutil.AssertListOrder(t, lists,
			"Additional Todos", "social todos", "Work Todos", // undone, by folded title
			"Home Todos", // done
		)
	})
}

func TestSortedListsMixedCase(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		todos := testutil.NewTodos(st)
		for _, title := range []string{"banana", "cherry", "Apple"} {
			_, err := todos.CreateList(ctx, title)
			testutil.AssertNoError(t, err)
		}
		lists, err := todos.SortedLists(ctx)
		testutil.AssertNoError(t, err)
		testutil.AssertListOrder(t, lists, "Apple", "banana", "cherry")
	})
}

func TestSortedTodos(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		u := testutil.LoadUniverse(t, st)
		todos := testutil.NewTodos(st)

		t.Run("undone first", func(t *testing.T) {
			got, err := todos.SortedTodos(ctx, u.Work)
			testutil.AssertNoError(t, err)
			testutil.AssertTodoOrder(t, got, "Duck out of meeting", "Chat with co-workers", "Get coffee")
		})

		t.Run("all done", func(t *testing.T) {
			got, err := todos.SortedTodos(ctx, u.Home)
			testutil.AssertNoError(t, err)
			testutil.AssertTodoOrder(t, got, "Buy milk", "Feed the cats", "Go to bed", "study for Launch School")
		})

		t.Run("refetches instead of trusting the argument", func(t *testing.T) {
			stale := u.Social
			_, err := todos.AddTodo(ctx, stale.ID, "Buy a present")
			testutil.AssertNoError(t, err)
			got, err := todos.SortedTodos(ctx, stale)
			testutil.AssertNoError(t, err)
			testutil.AssertTodoOrder(t, got, "Buy a present", "Go to Libby's birthday party")
		})

		t.Run("empty list", func(t *testing.T) {
			got, err := todos.SortedTodos(ctx, u.Additional)
			testutil.AssertNoError(t, err)
			if len(got) != 0 {
				t.Errorf("expected no todos, got %d", len(got))
			}
		})
	})
}

func TestCompletionStatus(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		u := testutil.LoadUniverse(t, st)
		todos := testutil.NewTodos(st)

		tests := []struct {
			name       string
			list       types.TodoList
			wantDone   bool
			wantUndone bool
		}{
			{"empty list is never done", u.Additional, false, false},
			{"all done", u.Home, true, false},
			{"partly done", u.Work, false, true},
			{"nothing done", u.Social, false, true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := todos.IsDoneList(tt.list); got != tt.wantDone {
					t.Errorf("IsDoneList = %v, want %v", got, tt.wantDone)
				}
				if got := todos.HasUndoneTodos(tt.list); got != tt.wantUndone {
					t.Errorf("HasUndoneTodos = %v, want %v", got, tt.wantUndone)
				}
			})
		}

		t.Run("new undone todo flips a done list", func(t *testing.T) {
			_, err := todos.AddTodo(ctx, u.Home.ID, "Water plants")
			testutil.AssertNoError(t, err)
			home, err := todos.LoadList(ctx, u.Home.ID)
			testutil.AssertNoError(t, err)
			if todos.IsDoneList(*home) {
				t.Error("expected list with a new undone todo to be undone")
			}
		})
	})
}

func TestValidityPredicates(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		u := testutil.LoadUniverse(t, st)
		todos := testutil.NewTodos(st)
		coffee := u.TodoID(t, u.Work, "Get coffee")

		listCases := []struct {
			name string
			id   int64
			want bool
		}{
			{"existing", u.Work.ID, true},
			{"zero", 0, false},
			{"negative", -3, false},
			{"missing", 99999, false},
		}
		for _, tt := range listCases {
			t.Run("list "+tt.name, func(t *testing.T) {
				got, err := todos.IsValidList(ctx, tt.id)
				testutil.AssertNoError(t, err)
				if got != tt.want {
					t.Errorf("IsValidList(%d) = %v, want %v", tt.id, got, tt.want)
				}
			})
		}

		todoCases := []struct {
			name   string
			listID int64
			todoID int64
			want   bool
		}{
			{"todo in its list", u.Work.ID, coffee, true},
			{"todo from another list", u.Social.ID, coffee, false},
			{"missing list", 99999, coffee, false},
			{"missing todo", u.Work.ID, 99999, false},
			{"zero ids", 0, 0, false},
		}
		for _, tt := range todoCases {
			t.Run(tt.name, func(t *testing.T) {
				got, err := todos.IsValidListAndTodo(ctx, tt.listID, tt.todoID)
				testutil.AssertNoError(t, err)
				if got != tt.want {
					t.Errorf("IsValidListAndTodo(%d, %d) = %v, want %v", tt.listID, tt.todoID, got, tt.want)
				}
			})
		}
	})
}

func TestTodoMutations(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		u := testutil.LoadUniverse(t, st)
		todos := testutil.NewTodos(st)
		duck := u.TodoID(t, u.Work, "Duck out of meeting")

		t.Run("toggle twice restores", func(t *testing.T) {
			testutil.AssertNoError(t, todos.ToggleTodo(ctx, u.Work.ID, duck))
			todo, err := todos.LoadTodo(ctx, u.Work.ID, duck)
			testutil.AssertNoError(t, err)
			if !todo.Done {
				t.Error("expected done after toggle")
			}
			testutil.AssertNoError(t, todos.ToggleTodo(ctx, u.Work.ID, duck))
			todo, err = todos.LoadTodo(ctx, u.Work.ID, duck)
			testutil.AssertNoError(t, err)
			if todo.Done {
				t.Error("expected not done after second toggle")
			}
		})

		t.Run("complete all makes the list done", func(t *testing.T) {
			testutil.AssertNoError(t, todos.CompleteAllTodos(ctx, u.Work.ID))
			testutil.AssertNoError(t, todos.CompleteAllTodos(ctx, u.Work.ID))
			work, err := todos.LoadList(ctx, u.Work.ID)
			testutil.AssertNoError(t, err)
			if !todos.IsDoneList(*work) {
				t.Error("expected list to be done")
			}
		})

		t.Run("delete todo", func(t *testing.T) {
			testutil.AssertNoError(t, todos.DeleteTodo(ctx, u.Work.ID, duck))
			_, err := todos.LoadTodo(ctx, u.Work.ID, duck)
			testutil.AssertNotFound(t, err)
		})

		t.Run("delete list frees the title", func(t *testing.T) {
			testutil.AssertNoError(t, todos.DeleteList(ctx, u.Social.ID))
			exists, err := todos.ExistsListTitle(ctx, "social todos")
			testutil.AssertNoError(t, err)
			if exists {
				t.Error("expected title to be free after delete")
			}
			_, err = todos.LoadList(ctx, u.Social.ID)
			testutil.AssertNotFound(t, err)
		})
	})
}

func TestCreateAndRename(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		u := testutil.LoadUniverse(t, st)
		todos := testutil.NewTodos(st)

		t.Run("create duplicate", func(t *testing.T) {
			_, err := todos.CreateList(ctx, "Work Todos")
			testutil.AssertUniqueViolation(t, err)
		})

		t.Run("titles are case-sensitive", func(t *testing.T) {
			id, err := todos.CreateList(ctx, "work todos")
			testutil.AssertNoError(t, err)
			if id <= 0 {
				t.Errorf("expected positive id, got %d", id)
			}
		})

		t.Run("rename to another list's title", func(t *testing.T) {
			err := todos.Rename(ctx, u.Social.ID, "Home Todos")
			testutil.AssertUniqueViolation(t, err)
		})

		t.Run("rename to its own title", func(t *testing.T) {
			err := todos.Rename(ctx, u.Social.ID, "social todos")
			testutil.AssertUniqueViolation(t, err)
		})

		t.Run("rename missing list", func(t *testing.T) {
			err := todos.Rename(ctx, 99999, "Anything")
			if !errors.Is(err, types.ErrListNotFound) {
				t.Errorf("expected ErrListNotFound, got %v", err)
			}
		})

		t.Run("rename", func(t *testing.T) {
			testutil.AssertNoError(t, todos.Rename(ctx, u.Social.ID, "Social Todos"))
			list, err := todos.LoadList(ctx, u.Social.ID)
			testutil.AssertNoError(t, err)
			if list.Title != "Social Todos" {
				t.Errorf("title = %q", list.Title)
			}
		})
	})
}

// racyStore claims every title is free, so the insert is what discovers
// the conflict.
type racyStore struct {
	store.Store
	addErr error
}

func (s racyStore) ExistsListTitle(context.Context, string) (bool, error) { return false, nil }

func (s racyStore) AddList(context.Context, string) (int64, error) { return 0, s.addErr }

func (s racyStore) RenameList(context.Context, int64, string) error { return s.addErr }

func TestLostRaceIsClassified(t *testing.T) {
	ctx := context.Background()
	st := testutil.OpenStore(t, store.DriverMemory)
	listID, err := st.AddList(ctx, "Existing")
	testutil.AssertNoError(t, err)

	tests := []struct {
		name       string
		err        error
		wantUnique bool
	}{
		{"typed", &types.ConstraintError{Field: "todolists.title", Value: "x"}, true},
		{"driver text only", errors.New("UNIQUE constraint failed: todolists.title"), true},
		{"postgres text only", errors.New(`duplicate key value violates unique constraint "todolists_title_key"`), true},
		{"other failure", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos := testutil.NewTodos(racyStore{Store: st, addErr: tt.err})

			_, err := todos.CreateList(ctx, "Racy")
			if got := errors.Is(err, types.ErrUniqueConstraintViolation); got != tt.wantUnique {
				t.Errorf("CreateList: errors.Is unique = %v, want %v (err %v)", got, tt.wantUnique, err)
			}

			err = todos.Rename(ctx, listID, "Racy")
			if got := errors.Is(err, types.ErrUniqueConstraintViolation); got != tt.wantUnique {
				t.Errorf("Rename: errors.Is unique = %v, want %v (err %v)", got, tt.wantUnique, err)
			}
		})
	}
}

func TestIsUniqueConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", types.ErrUniqueConstraintViolation, true},
		{"wrapped typed", fmt.Errorf("insert: %w", &types.ConstraintError{Field: "todolists.title"}), true},
		{"sqlite text", errors.New("UNIQUE constraint failed: todolists.title"), true},
		{"postgres text", errors.New(`ERROR: duplicate key value violates unique constraint "todolists_title_key"`), true},
		{"connection error", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), false},
		{"not found", types.ErrListNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nanotodos.IsUniqueConstraintViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueConstraintViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	t.Run("real duplicate insert", func(t *testing.T) {
		testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
			ctx := context.Background()
			_, err := st.AddList(ctx, "Work")
			testutil.AssertNoError(t, err)
			_, err = st.AddList(ctx, "Work")
			if !nanotodos.IsUniqueConstraintViolation(err) {
				t.Errorf("expected duplicate insert to classify as unique violation, got %v", err)
			}
		})
	})
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1", 1},
		{" 42 ", 42},
		{"0", 0},
		{"-5", 0},
		{"abc", 0},
		{"", 0},
		{"1.5", 0},
		{"99999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := nanotodos.ParseID(tt.in); got != tt.want {
				t.Errorf("ParseID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSummaries(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		testutil.LoadUniverse(t, st)
		todos := testutil.NewTodos(st)

		got, err := todos.Summaries(ctx)
		testutil.AssertNoError(t, err)

		want := []struct {
			title       string
			total, done int
			isDone      bool
		}{
			{"Additional Todos", 0, 0, false},
			{"social todos", 1, 0, false},
			{"Work Todos", 3, 2, false},
			{"Home Todos", 4, 4, true},
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d summaries, got %d", len(want), len(got))
		}
		for i, w := range want {
			s := got[i]
			if s.List.Title != w.title || s.Total != w.total || s.Done != w.done || s.IsDone != w.isDone {
				t.Errorf("summary[%d] = {%s %d %d %v}, want %+v", i, s.List.Title, s.Total, s.Done, s.IsDone, w)
			}
		}
	})
}

func TestSeedIsRepeatable(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		todos := testutil.NewTodos(st)

		n, err := todos.Seed(ctx)
		testutil.AssertNoError(t, err)
		if n != 4 {
			t.Errorf("first seed created %d lists, want 4", n)
		}

		n, err = todos.Seed(ctx)
		testutil.AssertNoError(t, err)
		if n != 0 {
			t.Errorf("second seed created %d lists, want 0", n)
		}

		lists, err := todos.SortedLists(ctx)
		testutil.AssertNoError(t, err)
		if len(lists) != 4 {
			t.Errorf("expected 4 lists, got %d", len(lists))
		}
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	testutil.ForEachBackend(t, func(t *testing.T, st store.Store) {
		u := testutil.LoadUniverse(t, st)
		todos := testutil.NewTodos(st)

		results, err := todos.Search(ctx, search.Options{Query: "milk"})
		testutil.AssertNoError(t, err)
		if len(results) != 1 || results[0].Todo == nil {
			t.Fatalf("expected one todo match, got %+v", results)
		}
		if results[0].ListID != u.Home.ID || results[0].Todo.ID != u.TodoID(t, u.Home, "Buy milk") {
			t.Errorf("match points at list %d todo %d", results[0].ListID, results[0].Todo.ID)
		}

		pending, err := todos.Search(ctx, search.Options{Query: "o", Fields: []string{search.FieldTodo}, PendingOnly: true})
		testutil.AssertNoError(t, err)
		for _, r := range pending {
			if r.Todo.Done {
				t.Errorf("pending search returned done todo %q", r.Todo.Title)
			}
		}
		if len(pending) != 2 {
			t.Errorf("expected the two undone todos, got %d", len(pending))
		}
	})
}
