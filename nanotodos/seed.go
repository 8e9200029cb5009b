package nanotodos

import (
	"context"
	"fmt"
)

type seedTodo struct {
	title string
	done  bool
}

type seedList struct {
	title string
	todos []seedTodo
}

var demoLists = []seedList{
	{"Work Todos", []seedTodo{
		{"Get coffee", true},
		{"Chat with co-workers", true},
		{"Duck out of meeting", false},
	}},
	{"Home Todos", []seedTodo{
		{"Feed the cats", true},
		{"Go to bed", true},
		{"Buy milk", true},
		{"study for Launch School", true},
	}},
	{"Additional Todos", nil},
	{"social todos", []seedTodo{
		{"Go to Libby's birthday party", false},
	}},
}

// Seed loads the demo lists. Lists whose title already exists are skipped,
// so seeding twice is harmless. Returns the number of lists created.
func (t *Todos) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, sl := range demoLists {
		taken, err := t.store.ExistsListTitle(ctx, sl.title)
		if err != nil {
			return created, fmt.Errorf("failed to check %q: %w", sl.title, err)
		}
		if taken {
			continue
		}

		listID, err := t.store.AddList(ctx, sl.title)
		if err != nil {
			return created, fmt.Errorf("failed to seed %q: %w", sl.title, err)
		}
		for _, st := range sl.todos {
			todoID, err := t.store.AddTodo(ctx, listID, st.title)
			if err != nil {
				return created, fmt.Errorf("failed to seed todo %q: %w", st.title, err)
			}
			if st.done {
				if err := t.store.ToggleTodo(ctx, listID, todoID); err != nil {
					return created, fmt.Errorf("failed to seed todo %q: %w", st.title, err)
				}
			}
		}
		created++
		t.logger.Debug("seeded list", "list_id", listID, "title", sl.title, "todos", len(sl.todos))
	}
	return created, nil
}
