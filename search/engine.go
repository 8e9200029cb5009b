package search

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/arthur-debert/nanotodos/nanotodos/ordering"
	"github.com/arthur-debert/nanotodos/types"
)

// Engine implements the Searcher interface
type Engine struct {
	provider ListProvider
}

var _ Searcher = (*Engine)(nil)

// NewEngine creates a new search engine over the given lists
func NewEngine(provider ListProvider) *Engine {
	return &Engine{
		provider: provider,
	}
}

// Search returns matches ranked by score. Equal scores keep display
// order: lists as SortedLists orders them, each list before its todos.
func (e *Engine) Search(ctx context.Context, options Options) ([]Result, error) {
	if options.Query == "" {
		return []Result{}, nil
	}

	lists, err := e.provider.AllLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get todo lists: %w", err)
	}

	results := []Result{}
	for _, list := range ordering.PartitionAndSortLists(lists) {
		if searches(options, FieldList) {
			if r := match(list.Title, FieldList, options); r != nil {
				r.ListID, r.ListTitle = list.ID, list.Title
				results = append(results, *r)
			}
		}
		if !searches(options, FieldTodo) {
			continue
		}
		for _, todo := range ordering.SortTodos(list.Todos) {
			if options.PendingOnly && todo.Done {
				continue
			}
			if r := match(todo.Title, FieldTodo, options); r != nil {
				r.ListID, r.ListTitle, r.Todo = list.ID, list.Title, &todo
				results = append(results, *r)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if options.MaxResults != nil && *options.MaxResults > 0 && len(results) > *options.MaxResults {
		results = results[:*options.MaxResults]
	}

	return results, nil
}

func searches(options Options, field string) bool {
	return len(options.Fields) == 0 || slices.Contains(options.Fields, field)
}

// match checks one title and returns a result without its list set
func match(text, field string, options Options) *Result {
	searchText, query := text, options.Query
	if !options.CaseSensitive {
		searchText = strings.ToLower(searchText)
		query = strings.ToLower(query)
	}

	startMarker, endMarker := options.HighlightStartMarker, options.HighlightEndMarker
	if startMarker == "" {
		startMarker = "**"
	}
	if endMarker == "" {
		endMarker = "**"
	}

	if options.ExactMatch {
		if searchText != query {
			return nil
		}
		r := &Result{Score: 1.0, MatchType: MatchExactTodo}
		if field == FieldList {
			r.MatchType = MatchExactList
		}
		if options.EnableHighlight {
			r.Highlight = startMarker + text + endMarker
		}
		return r
	}

	positions := findMatches(searchText, query)
	if len(positions) == 0 {
		return nil
	}

	r := &Result{Score: calculateScore(searchText, query), MatchType: MatchPartialTodo}
	if field == FieldList {
		r.MatchType = MatchPartialList
	}
	if options.EnableHighlight {
		r.Highlight = text
		// Lower-casing can change byte offsets; leave such titles unmarked
		if len(searchText) == len(text) {
			r.Highlight = highlight(text, positions, len(query), startMarker, endMarker)
		}
	}
	return r
}

// calculateScore computes a relevance score for a partial match
func calculateScore(fieldValue, query string) float64 {
	score := 0.6

	// Boost if match is at the beginning
	if strings.HasPrefix(fieldValue, query) {
		score += 0.2
	}

	// Boost if query takes up a large portion of the title
	if len(fieldValue) > 0 && float64(len(query))/float64(len(fieldValue)) > 0.5 {
		score += 0.1
	}

	return score
}

// findMatches returns the start of every non-overlapping occurrence
func findMatches(text, query string) []int {
	var positions []int
	if query == "" {
		return positions
	}
	for offset := 0; offset <= len(text)-len(query); {
		i := strings.Index(text[offset:], query)
		if i < 0 {
			break
		}
		positions = append(positions, offset+i)
		offset += i + len(query)
	}
	return positions
}

// highlight wraps each match in the markers
func highlight(text string, positions []int, queryLen int, startMarker, endMarker string) string {
	var builder strings.Builder
	lastEnd := 0

	for _, start := range positions {
		end := start + queryLen
		builder.WriteString(text[lastEnd:start])
		builder.WriteString(startMarker)
		builder.WriteString(text[start:end])
		builder.WriteString(endMarker)
		lastEnd = end
	}

	builder.WriteString(text[lastEnd:])
	return builder.String()
}

// SearchLists is a convenience function to search a set of lists
// already in memory
func SearchLists(ctx context.Context, lists []types.TodoList, options Options) ([]Result, error) {
	return NewEngine(staticLists(lists)).Search(ctx, options)
}

type staticLists []types.TodoList

func (s staticLists) AllLists(context.Context) ([]types.TodoList, error) {
	return s, nil
}
