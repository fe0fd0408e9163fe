package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Canvas is the pixel sink renderers deliver to. Renderers never read pixels
// back from a canvas.
type Canvas interface {
	// FillRect paints r with c. Parts of r outside the canvas are clipped.
	FillRect(r image.Rectangle, c color.RGBA) error

	// PutImage replaces the canvas contents with img, anchored at the origin.
	PutImage(img *image.RGBA) error
}

// ImageCanvas is an off-screen Canvas backed by an *image.RGBA.
// It is not safe for concurrent use; each render pass owns its own.
type ImageCanvas struct {
	img *image.RGBA
}

// NewImageCanvas allocates a transparent width×height canvas.
func NewImageCanvas(width, height int) *ImageCanvas {
	return &ImageCanvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// FillRect implements [Canvas].
func (c *ImageCanvas) FillRect(r image.Rectangle, col color.RGBA) error {
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
	return nil
}

// PutImage implements [Canvas].
func (c *ImageCanvas) PutImage(img *image.RGBA) error {
	draw.Draw(c.img, c.img.Bounds(), img, img.Bounds().Min, draw.Src)
	return nil
}

// Image returns the backing image.
func (c *ImageCanvas) Image() *image.RGBA {
	return c.img
}

// Bounds returns the canvas bounds.
func (c *ImageCanvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

var _ Canvas = (*ImageCanvas)(nil)
