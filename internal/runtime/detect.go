package runtime

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Display formats an output node can render.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatImage    = "image"
)

var imageExtPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg)(\?|$)`)

// Format predicates, each pure over the raw string. DetectFormat evaluates
// them in a fixed priority order so the heuristic stays testable in
// isolation.

func looksLikeImage(content string) bool {
	if strings.HasPrefix(content, "data:image") {
		return true
	}
	return strings.HasPrefix(content, "http") && imageExtPattern.MatchString(content)
}

func looksLikeJSON(content string) bool {
	return json.Valid([]byte(content))
}

func looksLikeHTML(content string) bool {
	return strings.Contains(content, "<") && strings.Contains(content, ">")
}

func looksLikeMarkdown(content string) bool {
	return strings.Contains(content, "#") ||
		strings.Contains(content, "*") ||
		strings.Contains(content, "[")
}

// DetectFormat sniffs the display format of raw output content. Priority:
// image, JSON, HTML, markdown, plain text.
func DetectFormat(content string) string {
	if content == "" {
		return FormatText
	}
	switch {
	case looksLikeImage(content):
		return FormatImage
	case looksLikeJSON(content):
		return FormatJSON
	case looksLikeHTML(content):
		return FormatHTML
	case looksLikeMarkdown(content):
		return FormatMarkdown
	default:
		return FormatText
	}
}
