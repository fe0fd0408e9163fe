package render

import (
	"context"
	"image"
	"image/color"
	"math"
	"time"

	perrors "github.com/matzehuels/uniquepfp/pkg/errors"
	"github.com/matzehuels/uniquepfp/pkg/rng"
)

// Seed point counts: K = floor(draw*PointSpread) + MinPoints.
const (
	MinPoints   = 30
	PointSpread = 30
	MaxPoints   = MinPoints + PointSpread - 1
)

// Point is a colored Voronoi seed in pixel space.
type Point struct {
	X, Y  float64
	Color color.RGBA
}

// VoronoiOptions controls incremental rasterization.
type VoronoiOptions struct {
	// Async enables cooperative yielding between rows.
	Async bool

	// FrameBudget is how long the scan may run before yielding. Only used
	// when Async is set.
	FrameBudget time.Duration

	// Yielder receives control when the budget is spent. Defaults to [Gosched].
	Yielder Yielder

	// Now reads the clock for frame budgeting. Defaults to time.Now.
	Now func() time.Time
}

func (o VoronoiOptions) yielder() Yielder {
	if o.Yielder == nil {
		return Gosched
	}
	return o.Yielder
}

func (o VoronoiOptions) clock() func() time.Time {
	if o.Now == nil {
		return time.Now
	}
	return o.Now
}

// GeneratePoints draws the seed point set. The count is drawn first, then
// each point draws x, y and its palette color, in that order.
func GeneratePoints(src rng.Source, width, height int, palette Palette) []Point {
	k := int(src.Float64()*PointSpread) + MinPoints
	points := make([]Point, k)
	for i := range points {
		x := src.Float64() * float64(width)
		y := src.Float64() * float64(height)
		c := palette.Pick(src)
		points[i] = Point{X: x, Y: y, Color: c}
	}
	return points
}

// Nearest returns the index of the point closest to (x, y). Ties go to the
// earliest point because only a strictly smaller distance replaces the
// current best. It returns -1 for an empty set.
func Nearest(points []Point, x, y float64, metric Metric) int {
	best, bestDist := -1, math.Inf(1)
	switch metric {
	case Manhattan:
		for i, p := range points {
			if d := math.Abs(x-p.X) + math.Abs(y-p.Y); d < bestDist {
				best, bestDist = i, d
			}
		}
	default:
		for i, p := range points {
			dx, dy := x-p.X, y-p.Y
			// The conversions forbid fusing into an FMA, which would make
			// ties and pixels differ between architectures.
			if d := math.Sqrt(float64(dx*dx) + float64(dy*dy)); d < bestDist {
				best, bestDist = i, d
			}
		}
	}
	return best
}

// Voronoi renders a Voronoi avatar onto canvas.
//
// The 6-color palette and the seed points are drawn from src before any
// pixel is computed. The buffer reaches the canvas in a single PutImage call
// and only if the pass was not cancelled.
func Voronoi(ctx context.Context, canvas Canvas, height, width int, src rng.Source, metric Metric, opts VoronoiOptions) error {
	palette := NewPalette(src, VoronoiPaletteSize)
	points := GeneratePoints(src, width, height, palette)
	return Rasterize(ctx, canvas, height, width, points, metric, opts)
}

// Rasterize scans every pixel against points and delivers the result to
// canvas. See [Voronoi].
func Rasterize(ctx context.Context, canvas Canvas, height, width int, points []Point, metric Metric, opts VoronoiOptions) error {
	buf := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := checkpoint(ctx); err != nil {
		return err
	}

	now := opts.clock()
	yielder := opts.yielder()
	lastYield := now()

	for y := 0; y < height; y++ {
		if err := checkpoint(ctx); err != nil {
			return err
		}

		row := buf.Pix[y*buf.Stride : y*buf.Stride+width*4]
		for x := 0; x < width; x++ {
			c := points[Nearest(points, float64(x), float64(y), metric)].Color
			px := row[x*4 : x*4+4 : x*4+4]
			px[0] = c.R
			px[1] = c.G
			px[2] = c.B
			px[3] = 0xff
		}

		if opts.Async && now().Sub(lastYield) >= opts.FrameBudget {
			lastYield = now()
			yerr := yielder.Yield(ctx)
			if err := checkpoint(ctx); err != nil {
				return err
			}
			if yerr != nil {
				return perrors.Wrap(perrors.ErrCodeRenderFailed, yerr, "yield after row %d", y)
			}
		}
	}

	if err := checkpoint(ctx); err != nil {
		return err
	}
	if err := canvas.PutImage(buf); err != nil {
		return perrors.Wrap(perrors.ErrCodeRenderFailed, err, "deliver %dx%d buffer", width, height)
	}
	return nil
}
