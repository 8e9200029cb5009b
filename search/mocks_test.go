package search

import (
	"context"

	"github.com/arthur-debert/nanotodos/types"
)

// MockListProvider implements ListProvider for testing
type MockListProvider struct {
	lists []types.TodoList
	err   error
}

// NewMockListProvider creates a new mock with the given lists
func NewMockListProvider(lists []types.TodoList) *MockListProvider {
	return &MockListProvider{
		lists: lists,
	}
}

// SetError configures the mock to return an error
func (m *MockListProvider) SetError(err error) {
	m.err = err
}

// AllLists returns the mock lists or error
func (m *MockListProvider) AllLists(ctx context.Context) ([]types.TodoList, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lists, nil
}

// SampleLists mirrors the demo data
func SampleLists() []types.TodoList {
	return []types.TodoList{
		{ID: 1, Title: "Work Todos", Todos: []types.Todo{
			{ID: 1, ListID: 1, Title: "Get coffee", Done: true},
			{ID: 2, ListID: 1, Title: "Chat with co-workers", Done: true},
			{ID: 3, ListID: 1, Title: "Duck out of meeting"},
		}},
		{ID: 2, Title: "Home Todos", Todos: []types.Todo{
			{ID: 4, ListID: 2, Title: "Feed the cats", Done: true},
			{ID: 5, ListID: 2, Title: "Go to bed", Done: true},
			{ID: 6, ListID: 2, Title: "Buy milk", Done: true},
			{ID: 7, ListID: 2, Title: "study for Launch School", Done: true},
		}},
		{ID: 3, Title: "Additional Todos", Todos: []types.Todo{}},
		{ID: 4, Title: "social todos", Todos: []types.Todo{
			{ID: 8, ListID: 4, Title: "Go to Libby's birthday party"},
		}},
	}
}
