package common

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ClampLines truncates every line of s to width cells, keeping ANSI styling
// intact.
func ClampLines(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[i] = ansi.Truncate(line, width, "…")
		}
	}
	return strings.Join(lines, "\n")
}

// WrapText word-wraps plain text to width, honouring existing newlines, and
// keeps at most maxLines lines (0 means no limit). A cut is marked with "…".
func WrapText(text string, width, maxLines int) []string {
	if width < 8 {
		width = 8
	}
	wrapped := ansi.Wrap(strings.TrimSpace(text), width, "")
	lines := strings.Split(wrapped, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		if ansi.StringWidth(last) >= width {
			last = ansi.Truncate(last, width-1, "")
		}
		lines[maxLines-1] = last + "…"
	}
	return lines
}
