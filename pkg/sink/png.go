package sink

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	size int
}

// WithSize rescales the image to size×size with Catmull-Rom before encoding.
// Zero keeps the source dimensions.
func WithSize(size int) PNGOption {
	return func(r *pngRenderer) { r.size = size }
}

// RenderPNG encodes img as PNG.
func RenderPNG(img image.Image, opts ...PNGOption) ([]byte, error) {
	var r pngRenderer
	for _, opt := range opts {
		opt(&r)
	}

	if r.size > 0 && (img.Bounds().Dx() != r.size || img.Bounds().Dy() != r.size) {
		img = scale(img, r.size, r.size)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// scale resamples src to width×height with Catmull-Rom interpolation.
func scale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
