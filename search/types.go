package search

import (
	"context"

	"github.com/arthur-debert/nanotodos/types"
)

// Fields that can be searched
const (
	FieldList = "list" // list titles
	FieldTodo = "todo" // todo titles
)

// Options configures search behavior
type Options struct {
	// Query is the text to look for
	Query string

	// Fields limits the search to FieldList and/or FieldTodo.
	// Empty searches both.
	Fields []string

	// CaseSensitive controls whether search is case-sensitive
	CaseSensitive bool

	// ExactMatch requires the whole title to match the query
	ExactMatch bool

	// PendingOnly skips todos that are already done
	PendingOnly bool

	// EnableHighlight wraps every match in the highlight markers
	EnableHighlight bool

	// Markers default to "**"
	HighlightStartMarker string
	HighlightEndMarker   string

	// MaxResults limits the number of results; nil means no limit
	MaxResults *int
}

// Result is one matching list title or todo title
type Result struct {
	ListID    int64       `json:"list_id" yaml:"list_id"`
	ListTitle string      `json:"list_title" yaml:"list_title"`
	Todo      *types.Todo `json:"todo,omitempty" yaml:"todo,omitempty"`

	// Score represents match relevance (0.0 to 1.0, higher is better)
	Score float64 `json:"score" yaml:"score"`

	// Highlight is the matched title with markers, when enabled
	Highlight string `json:"highlight,omitempty" yaml:"highlight,omitempty"`

	MatchType MatchType `json:"match_type" yaml:"match_type"`
}

// Title returns the matched title
func (r Result) Title() string {
	if r.Todo != nil {
		return r.Todo.Title
	}
	return r.ListTitle
}

// MatchType indicates what kind of title matched
type MatchType string

const (
	MatchExactList   MatchType = "exact_list"
	MatchPartialList MatchType = "partial_list"
	MatchExactTodo   MatchType = "exact_todo"
	MatchPartialTodo MatchType = "partial_todo"
)

// ListProvider is the read side of a todo store. store.Store satisfies it.
type ListProvider interface {
	AllLists(ctx context.Context) ([]types.TodoList, error)
}

// Searcher defines the main search interface
type Searcher interface {
	Search(ctx context.Context, options Options) ([]Result, error)
}
