package testutil

import (
	"testing"

	"github.com/arthur-debert/nanotodos/nanotodos/store"
	"github.com/arthur-debert/nanotodos/types"
)

func TestLoadUniverse(t *testing.T) {
	ForEachBackend(t, func(t *testing.T, st store.Store) {
		u := LoadUniverse(t, st)

		counts := []struct {
			list  types.TodoList
			total int
			done  int
		}{
			{u.Work, 3, 2},
			{u.Home, 4, 4},
			{u.Additional, 0, 0},
			{u.Social, 1, 0},
		}
		for _, c := range counts {
			if got := len(c.list.Todos); got != c.total {
				t.Errorf("%s: expected %d todos, got %d", c.list.Title, c.total, got)
			}
			if got := c.list.CountDone(); got != c.done {
				t.Errorf("%s: expected %d done, got %d", c.list.Title, c.done, got)
			}
		}

		if id := u.TodoID(t, u.Work, "Get coffee"); id <= 0 {
			t.Errorf("expected a positive todo id, got %d", id)
		}
	})
}

func TestOpenStoreDrivers(t *testing.T) {
	for _, driver := range store.Drivers {
		t.Run(string(driver), func(t *testing.T) {
			st := OpenStore(t, driver)
			if st == nil {
				t.Fatal("expected a store")
			}
		})
	}
}
