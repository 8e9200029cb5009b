package formats

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/nanotodos/types"
)

// plainTodoRegex matches "[ ] title" and "[x] title" lines
var plainTodoRegex = regexp.MustCompile(`^\s*\[( |x|X)\]\s+(.+?)\s*$`)

// PlainText format implementation
// Serialization: title on the first line, blank line, then one "[x] title"
// line per todo
// Deserialization: first non-checkbox line is the title, checkbox lines are
// todos
var PlainText = &ListFormat{
	Name:      "plaintext",
	Extension: ".txt",
	Serialize: func(list types.TodoList) string {
		var result strings.Builder
		result.WriteString(list.Title)
		result.WriteString("\n\n")
		for _, todo := range list.Todos {
			result.WriteString(checkbox(todo.Done))
			result.WriteString(" ")
			result.WriteString(todo.Title)
			result.WriteString("\n")
		}
		return result.String()
	},
	Deserialize: func(document string) (types.TodoList, error) {
		lines := strings.Split(document, "\n")
		start := firstContentLine(lines)
		if start < 0 {
			return types.TodoList{}, errors.New("empty document: no title and no todos")
		}

		var list types.TodoList
		if !plainTodoRegex.MatchString(lines[start]) {
			list.Title = strings.TrimSpace(lines[start])
			start++
		}
		list.Todos = parseChecklist(lines[start:], plainTodoRegex)
		return list, nil
	},
}

func init() {
	if err := Register(PlainText); err != nil {
		panic(fmt.Sprintf("failed to register PlainText format: %v", err))
	}
}
