package render

import (
	"image/color"

	"github.com/matzehuels/uniquepfp/pkg/rng"
)

// Palette sizes used by the renderers.
const (
	GridPaletteSize    = 3
	VoronoiPaletteSize = 6
)

// Palette is an ordered, immutable set of opaque colors.
type Palette []color.RGBA

// NewPalette draws size colors from src. Each channel is floor(draw*255),
// so channels fall in [0, 254]. Channels are drawn in R, G, B order.
func NewPalette(src rng.Source, size int) Palette {
	p := make(Palette, size)
	for i := range p {
		r := channel(src)
		g := channel(src)
		b := channel(src)
		p[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return p
}

func channel(src rng.Source) uint8 {
	return uint8(src.Float64() * 255)
}

// Pick draws one palette entry uniformly with a single draw from src.
func (p Palette) Pick(src rng.Source) color.RGBA {
	return p[p.PickIndex(src)]
}

// PickIndex is like Pick but returns the index of the drawn entry.
func (p Palette) PickIndex(src rng.Source) int {
	return int(src.Float64() * float64(len(p)))
}
