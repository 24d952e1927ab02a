package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Daisy.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle gradient from indigo to rose.
	lines := []struct {
		text  string
		color string
	}{
		{"      _       _            ", "#818cf8"},
		{"   __| | __ _(_)___ _   _  ", "#a78bfa"},
		{"  / _` |/ _` | / __| | | | ", "#c084fc"},
		{" | (_| | (_| | \\__ \\ |_| | ", "#e879f9"},
		{"  \\__,_|\\__,_|_|___/\\__, | ", "#f472b6"},
		{"                    |___/  ", "#fb7185"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}
