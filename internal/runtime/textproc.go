package runtime

import (
	"fmt"
	"strings"
	"unicode"
)

// IsTextOperation reports whether ProcessText understands the operation.
func IsTextOperation(op string) bool {
	switch op {
	case "uppercase", "lowercase", "title", "reverse", "wordcount",
		"charcount", "trim", "removeSpaces", "addPrefix", "addSuffix", "custom":
		return true
	}
	return false
}

// ProcessText applies a text-processor operation. Unknown operations return
// the input unchanged, matching the canvas behavior.
func ProcessText(text, operation, custom string) string {
	switch operation {
	case "uppercase":
		return strings.ToUpper(text)
	case "lowercase":
		return strings.ToLower(text)
	case "title":
		return titleCase(text)
	case "reverse":
		runes := []rune(text)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes)
	case "wordcount":
		return fmt.Sprintf("Word count: %d", len(strings.Fields(text)))
	case "charcount":
		return fmt.Sprintf("Character count: %d", len([]rune(text)))
	case "trim":
		return strings.TrimSpace(text)
	case "removeSpaces":
		return strings.Join(strings.Fields(text), "")
	case "addPrefix":
		return "Processed: " + text
	case "addSuffix":
		return text + " - Processed"
	case "custom":
		if custom != "" {
			return custom + ": " + text
		}
		return text
	default:
		return text
	}
}

// titleCase uppercases the first letter of each word and lowercases the
// rest.
func titleCase(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			b.WriteRune(r)
			continue
		}
		if !inWord {
			b.WriteRune(unicode.ToUpper(r))
			inWord = true
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
