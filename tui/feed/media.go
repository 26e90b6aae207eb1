package feed

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

const (
	avatarW, avatarH   = 4, 2
	previewW, previewH = 16, 6
)

// thumbnail renders img once per url and size and serves repeats from the
// LRU, so redraws on every tick stay cheap.
func (m Model) thumbnail(url string, img image.Image, w, h int) string {
	key := fmt.Sprintf("%s|%dx%d", url, w, h)
	if s, ok := m.thumbs.Get(key); ok {
		return s
	}
	s := renderANSIThumbnail(img, w, h)
	m.thumbs.Add(key, s)
	return s
}

// renderANSIThumbnail draws img as w x h cells of upper half blocks, two
// source rows per cell.
func renderANSIThumbnail(img image.Image, w, h int) string {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return placeholder(w, h, ' ')
	}
	if w < 2 {
		w = 2
	}
	if h < 1 {
		h = 1
	}
	rows := h * 2
	var out strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := b.Min.X + x*b.Dx()/w
			top := sample(img, sx, b.Min.Y+(2*y)*b.Dy()/rows)
			bot := sample(img, sx, b.Min.Y+(2*y+1)*b.Dy()/rows)
			fmt.Fprintf(&out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}
		out.WriteString("\x1b[0m")
		if y < h-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func sample(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// placeholder fills a w x h block with ch, shown while an image is pending
// or when it never arrived.
func placeholder(w, h int, ch rune) string {
	line := strings.Repeat(string(ch), w)
	lines := make([]string, h)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
