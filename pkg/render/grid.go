package render

import (
	"image"

	"github.com/matzehuels/uniquepfp/pkg/rng"
)

// Grid dimensions in cells.
const (
	GridRows = 8
	GridCols = 8
)

// Grid draws an 8×8 mosaic onto canvas.
//
// Cells are ceil(dimension/8) pixels, so the last row and column may reach up
// to 7 pixels past the canvas edge; the canvas clips them. Cells are filled in
// row-major order, each with one palette pick, after the 3-color palette has
// been drawn.
func Grid(canvas Canvas, height, width int, src rng.Source) error {
	palette := NewPalette(src, GridPaletteSize)

	cellHeight := ceilDiv(height, GridRows)
	cellWidth := ceilDiv(width, GridCols)

	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			c := palette.Pick(src)
			r := image.Rect(col*cellWidth, row*cellHeight, (col+1)*cellWidth, (row+1)*cellHeight)
			if err := canvas.FillRect(r, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
