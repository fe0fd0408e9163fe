package render

import (
	perrors "github.com/matzehuels/uniquepfp/pkg/errors"
	"github.com/matzehuels/uniquepfp/pkg/rng"
)

// Description is the geometry of an avatar without its pixels.
type Description struct {
	Mode    Mode
	Width   int
	Height  int
	Palette Palette

	// Points holds the Voronoi seed points in generation order.
	Points []Point

	// Cells holds the palette index of each grid cell in row-major order.
	Cells []int
}

// Describe consumes src exactly as [Render] would for mode and reports the
// palette and layout it would draw, without rasterizing anything.
func Describe(mode Mode, width, height int, src rng.Source) (Description, error) {
	d := Description{Mode: mode, Width: width, Height: height}
	switch {
	case mode == ModeGrid:
		d.Palette = NewPalette(src, GridPaletteSize)
		d.Cells = make([]int, GridRows*GridCols)
		for i := range d.Cells {
			d.Cells[i] = d.Palette.PickIndex(src)
		}
	case mode.IsVoronoi():
		d.Palette = NewPalette(src, VoronoiPaletteSize)
		d.Points = GeneratePoints(src, width, height, d.Palette)
	default:
		return Description{}, perrors.New(perrors.ErrCodeInvalidMode, "unknown mode: %q", mode)
	}
	return d, nil
}
