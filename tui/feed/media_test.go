package feed

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestRenderANSIThumbnail_Dimensions(t *testing.T) {
	out := renderANSIThumbnail(solid(10, 10, color.RGBA{G: 200, A: 255}), 6, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	if n := strings.Count(lines[0], "▀"); n != 6 {
		t.Fatalf("expected 6 cells per row, got %d", n)
	}
	if !strings.Contains(lines[0], "38;2;0;200;0") {
		t.Fatalf("expected truecolor foreground: %q", lines[0])
	}
}

func TestRenderANSIThumbnail_EmptyImage(t *testing.T) {
	out := renderANSIThumbnail(image.NewRGBA(image.Rect(0, 0, 0, 0)), 4, 2)
	if out != "    \n    " {
		t.Fatalf("expected blank block, got %q", out)
	}
}

func TestThumbnail_CachesPerURLAndSize(t *testing.T) {
	m := New(newFakeSession(), "example.test", true)
	img := solid(4, 4, color.White)

	a := m.thumbnail("u", img, 4, 2)
	b := m.thumbnail("u", solid(4, 4, color.Black), 4, 2)
	if a != b {
		t.Fatalf("second call should hit the cache")
	}
	m.thumbnail("u", img, 8, 4)
	if m.thumbs.Len() != 2 {
		t.Fatalf("size is part of the key, got %d entries", m.thumbs.Len())
	}
}

func TestIsSafeExternalURL(t *testing.T) {
	cases := map[string]bool{
		"https://mastodon.example/@a/1": true,
		"http://mastodon.example/x":     true,
		"javascript:alert(1)":           false,
		"file:///etc/passwd":            false,
		"/relative":                     false,
		"":                              false,
	}
	for in, want := range cases {
		if got := isSafeExternalURL(in); got != want {
			t.Fatalf("isSafeExternalURL(%q)=%v want %v", in, got, want)
		}
	}
	if openURL("javascript:alert(1)") != nil {
		t.Fatalf("unsafe url must not produce a command")
	}
}
