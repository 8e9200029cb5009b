package formats

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/nanotodos/types"
)

// markdownTitleRegex matches markdown h1 headers (must be at very start, no leading space)
var markdownTitleRegex = regexp.MustCompile(`^#\s+(.+?)[\s]*$`)

// markdownTodoRegex matches GitHub task list items ("- [ ] title", "* [x] title")
var markdownTodoRegex = regexp.MustCompile(`^\s*[-*+]\s+\[( |x|X)\]\s+(.+?)\s*$`)

// Markdown format implementation
// Serialization: # Title, blank line, then a GitHub task list
// Deserialization: title from the first # header, todos from task list items
var Markdown = &ListFormat{
	Name:      "markdown",
	Extension: ".md",
	Serialize: func(list types.TodoList) string {
		var result strings.Builder
		result.WriteString("# ")
		result.WriteString(list.Title)
		result.WriteString("\n\n")
		for _, todo := range list.Todos {
			result.WriteString("- ")
			result.WriteString(checkbox(todo.Done))
			result.WriteString(" ")
			result.WriteString(todo.Title)
			result.WriteString("\n")
		}
		return result.String()
	},
	Deserialize: func(document string) (types.TodoList, error) {
		if strings.TrimSpace(document) == "" {
			return types.TodoList{}, errors.New("empty document: no title and no todos")
		}

		lines := strings.Split(document, "\n")
		var list types.TodoList
		for i, line := range lines {
			if matches := markdownTitleRegex.FindStringSubmatch(line); len(matches) > 1 {
				list.Title = strings.TrimSpace(matches[1])
				lines = lines[i+1:]
				break
			}
		}
		list.Todos = parseChecklist(lines, markdownTodoRegex)
		if list.Title == "" && len(list.Todos) == 0 {
			return types.TodoList{}, errors.New("no title and no task list items found")
		}
		return list, nil
	},
}

func init() {
	if err := Register(Markdown); err != nil {
		panic(fmt.Sprintf("failed to register Markdown format: %v", err))
	}
}
