package common

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestClampLines(t *testing.T) {
	got := ClampLines("short\n"+strings.Repeat("x", 30), 10)
	lines := strings.Split(got, "\n")
	if lines[0] != "short" {
		t.Fatalf("short line changed: %q", lines[0])
	}
	if w := ansi.StringWidth(lines[1]); w > 10 {
		t.Fatalf("line not clamped: width %d", w)
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected ellipsis: %q", lines[1])
	}
}

func TestWrapText_KeepsNewlinesAndLimit(t *testing.T) {
	lines := WrapText("first paragraph\nsecond one is quite a bit longer than the width", 12, 3)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "first" || lines[1] != "paragraph" {
		t.Fatalf("expected word wrap at spaces: %q", lines)
	}
	if !strings.HasSuffix(lines[2], "…") {
		t.Fatalf("expected truncation marker on last line: %q", lines[2])
	}
	for _, l := range lines {
		if ansi.StringWidth(l) > 12 {
			t.Fatalf("line too wide: %q", l)
		}
	}
}

func TestWrapText_NoLimit(t *testing.T) {
	lines := WrapText("a\nb\nc", 20, 0)
	if strings.Join(lines, "|") != "a|b|c" {
		t.Fatalf("unexpected lines %q", lines)
	}
}
