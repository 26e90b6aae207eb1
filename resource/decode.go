package resource

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrNotImage reports a payload that none of the registered codecs accept.
var ErrNotImage = errors.New("payload is not a decodable image")

// MaxPixels bounds the decoded bitmap; the download cap alone does not,
// since a few KiB of PNG can declare gigabytes of pixels.
const MaxPixels = 4096 * 4096

// Decode turns raw bytes into an image. PNG, JPEG, GIF and WebP are
// registered; animated GIFs yield their first frame. Images declaring more
// than MaxPixels are rejected before any pixel is decoded.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrNotImage)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds pixel budget", ErrNotImage, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return img, nil
}
