package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/nanotodos/nanotodos"
	"github.com/arthur-debert/nanotodos/search"
	"github.com/arthur-debert/nanotodos/types"
	"gopkg.in/yaml.v3"
)

// listView is a list with its todos in display order
type listView struct {
	ID     int64        `json:"id" yaml:"id"`
	Title  string       `json:"title" yaml:"title"`
	IsDone bool         `json:"is_done" yaml:"is_done"`
	Todos  []types.Todo `json:"todos" yaml:"todos"`
}

// message is the result of a mutation
type message struct {
	Message string `json:"message" yaml:"message"`
	ID      int64  `json:"id,omitempty" yaml:"id,omitempty"`
}

// OutputFormatter handles formatting command results for different output formats
type OutputFormatter struct {
	format string
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter(format string) *OutputFormatter {
	return &OutputFormatter{format: strings.ToLower(format)}
}

// Format formats the given data according to the specified format
func (of *OutputFormatter) Format(data interface{}) (string, error) {
	switch of.format {
	case "json":
		return of.formatJSON(data)
	case "yaml":
		return of.formatYAML(data)
	default:
		return of.formatTable(data)
	}
}

func (of *OutputFormatter) formatJSON(data interface{}) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (of *OutputFormatter) formatYAML(data interface{}) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (of *OutputFormatter) formatTable(data interface{}) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	switch v := data.(type) {
	case []nanotodos.ListSummary:
		if len(v) == 0 {
			return "No todo lists.", nil
		}
		fmt.Fprintln(w, "ID\tTITLE\tDONE\tSTATUS")
		for _, s := range v {
			status := ""
			if s.IsDone {
				status = "done"
			}
			fmt.Fprintf(w, "%d\t%s\t%d/%d\t%s\n", s.List.ID, s.List.Title, s.Done, s.Total, status)
		}
	case listView:
		done := 0
		for _, todo := range v.Todos {
			if todo.Done {
				done++
			}
		}
		fmt.Fprintf(w, "%s (%d/%d done)\n", v.Title, done, len(v.Todos))
		if len(v.Todos) == 0 {
			fmt.Fprintln(w, "No todos.")
			break
		}
		fmt.Fprintln(w, "ID\tDONE\tTITLE")
		for _, todo := range v.Todos {
			mark := "[ ]"
			if todo.Done {
				mark = "[x]"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", todo.ID, mark, todo.Title)
		}
	case []search.Result:
		if len(v) == 0 {
			return "No matches.", nil
		}
		fmt.Fprintln(w, "LIST\tTODO\tDONE\tMATCH")
		for _, r := range v {
			listCell := fmt.Sprintf("%d %s", r.ListID, r.ListTitle)
			todoCell, done := "", ""
			if r.Todo == nil {
				listCell = fmt.Sprintf("%d %s", r.ListID, r.Highlight)
			} else {
				todoCell = fmt.Sprintf("%d %s", r.Todo.ID, r.Highlight)
				done = "[ ]"
				if r.Todo.Done {
					done = "[x]"
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", listCell, todoCell, done, r.MatchType)
		}
	case message:
		fmt.Fprint(w, v.Message)
	default:
		fmt.Fprintf(w, "%v", v)
	}

	if err := w.Flush(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
