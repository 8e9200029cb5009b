package formats

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/nanotodos/types"
)

// isBlankLine checks if a line contains only whitespace
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// parseChecklist collects todos from lines matching re, whose first group
// is the check mark and second group the title. Other lines are ignored.
func parseChecklist(lines []string, re *regexp.Regexp) []types.Todo {
	todos := []types.Todo{}
	for _, line := range lines {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		todos = append(todos, types.Todo{
			Title: strings.TrimSpace(m[2]),
			Done:  m[1] == "x" || m[1] == "X",
		})
	}
	return todos
}

// firstContentLine returns the index of the first non-blank line, or -1.
func firstContentLine(lines []string) int {
	for i, line := range lines {
		if !isBlankLine(line) {
			return i
		}
	}
	return -1
}
