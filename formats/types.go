// Package formats renders todo lists as text documents and parses them
// back. Formats are looked up by name in a registry, so the CLI can offer
// every registered format without knowing about each one.
package formats

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arthur-debert/nanotodos/types"
)

// ListFormat defines how a todo list is written to and read from a document
type ListFormat struct {
	// Name is the format identifier (alphanumeric, dashes, underscores, lowercase)
	Name string

	// Extension is the file extension including the dot (e.g., ".txt", ".md")
	Extension string

	// Serialize renders the list title and its todos in the order given
	Serialize func(list types.TodoList) string

	// Deserialize extracts the title and todos from a document. Parsed
	// todos carry no ids. Returns an error if the document has neither.
	Deserialize func(document string) (types.TodoList, error)
}

// registry holds all available list formats
var registry = make(map[string]*ListFormat)

// Register adds a new list format to the registry
func Register(format *ListFormat) error {
	// Validate format name (alphanumeric, dashes, underscores, lowercase)
	if !isValidFormatName(format.Name) {
		return fmt.Errorf("invalid format name %q: must be lowercase alphanumeric with dashes and underscores only", format.Name)
	}

	if !strings.HasPrefix(format.Extension, ".") {
		format.Extension = "." + format.Extension
	}

	if _, exists := registry[format.Name]; exists {
		return fmt.Errorf("format %q already registered", format.Name)
	}

	registry[format.Name] = format
	return nil
}

// Get returns a list format by name
func Get(name string) (*ListFormat, error) {
	format, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown format %q", name)
	}
	return format, nil
}

// ForExtension returns the format registered for a file extension.
func ForExtension(ext string) (*ListFormat, error) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, name := range List() {
		if registry[name].Extension == ext {
			return registry[name], nil
		}
	}
	return nil, fmt.Errorf("no format for extension %q", ext)
}

// List returns all registered format names, sorted
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// isValidFormatName checks if a format name is valid
func isValidFormatName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
