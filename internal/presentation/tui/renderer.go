package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders an output node's value for the
// terminal. Markdown goes through glamour; JSON and HTML are shown as fenced
// code blocks; images and videos reduce to their URL.
func NewRenderer() func(value, format string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(value, format string) (string, error) {
		switch format {
		case "markdown":
			return r.Render(value)
		case "json":
			return r.Render("```json\n" + value + "\n```")
		case "html":
			return r.Render("```html\n" + value + "\n```")
		case "image":
			return fmt.Sprintf("[image] %s\n", value), nil
		default:
			return value + "\n", nil
		}
	}
}
