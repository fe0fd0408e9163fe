package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	perrors "github.com/matzehuels/uniquepfp/pkg/errors"
	"github.com/matzehuels/uniquepfp/pkg/rng"
)

// seqSource replays a fixed sequence of draws, cycling when exhausted.
type seqSource struct {
	vals []float64
	n    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.n%len(s.vals)]
	s.n++
	return v
}

// recordingCanvas records every call made by a renderer.
type recordingCanvas struct {
	rects  []image.Rectangle
	colors []color.RGBA
	puts   []*image.RGBA
	err    error
}

func (c *recordingCanvas) FillRect(r image.Rectangle, col color.RGBA) error {
	c.rects = append(c.rects, r)
	c.colors = append(c.colors, col)
	return c.err
}

func (c *recordingCanvas) PutImage(img *image.RGBA) error {
	c.puts = append(c.puts, img)
	return c.err
}

func TestNewPalette(t *testing.T) {
	src := &seqSource{vals: []float64{0, 0.5, 0.9999}}
	p := NewPalette(src, 2)

	want := color.RGBA{R: 0, G: 127, B: 254, A: 255}
	for i, c := range p {
		if c != want {
			t.Errorf("palette[%d] = %v, want %v", i, c, want)
		}
	}
	if src.n != 6 {
		t.Errorf("palette of 2 consumed %d draws, want 6", src.n)
	}
}

func TestPalettePick(t *testing.T) {
	p := Palette{{R: 1}, {R: 2}, {R: 3}}
	tests := []struct {
		draw float64
		want int
	}{
		{0, 0},
		{0.3333, 0},
		{0.34, 1},
		{0.67, 2},
		{0.99999, 2},
	}
	for _, tt := range tests {
		if got := p.PickIndex(&seqSource{vals: []float64{tt.draw}}); got != tt.want {
			t.Errorf("PickIndex(%v) = %d, want %d", tt.draw, got, tt.want)
		}
	}
}

func TestGridCoverage(t *testing.T) {
	for _, size := range []image.Point{{100, 100}, {1000, 1000}, {37, 37}, {50, 21}} {
		canvas := &recordingCanvas{}
		if err := Grid(canvas, size.Y, size.X, rng.NewARC4(0)); err != nil {
			t.Fatalf("Grid(%v): %v", size, err)
		}

		if len(canvas.rects) != GridRows*GridCols {
			t.Fatalf("Grid(%v) drew %d rects, want %d", size, len(canvas.rects), GridRows*GridCols)
		}

		for i, a := range canvas.rects {
			for _, b := range canvas.rects[i+1:] {
				if !a.Intersect(b).Empty() {
					t.Fatalf("Grid(%v): rects %v and %v overlap", size, a, b)
				}
			}
		}

		bounds := image.Rect(0, 0, size.X, size.Y)
		covered := 0
		for _, r := range canvas.rects {
			covered += r.Intersect(bounds).Dx() * r.Intersect(bounds).Dy()
		}
		if covered != size.X*size.Y {
			t.Errorf("Grid(%v) covered %d pixels, want %d", size, covered, size.X*size.Y)
		}

		last := canvas.rects[len(canvas.rects)-1]
		if over := last.Max.X - size.X; over < 0 || over > 7 {
			t.Errorf("Grid(%v) last column overflow = %d, want 0..7", size, over)
		}
	}
}

func TestGridUsesThreeColors(t *testing.T) {
	canvas := &recordingCanvas{}
	if err := Grid(canvas, 1000, 1000, rng.NewARC4(0)); err != nil {
		t.Fatal(err)
	}

	palette := NewPalette(rng.NewARC4(0), GridPaletteSize)
	for i, c := range canvas.colors {
		found := false
		for _, p := range palette {
			found = found || p == c
		}
		if !found {
			t.Errorf("cell %d color %v not in palette %v", i, c, palette)
		}
	}
}

func TestGridDeterministic(t *testing.T) {
	a, b := NewImageCanvas(1000, 1000), NewImageCanvas(1000, 1000)
	if err := Grid(a, 1000, 1000, rng.NewARC4(0)); err != nil {
		t.Fatal(err)
	}
	if err := Grid(b, 1000, 1000, rng.NewARC4(0)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Image().Pix, b.Image().Pix) {
		t.Error("grid renders of seed 0 differ")
	}
}

func TestPointCountBounds(t *testing.T) {
	for s := int32(-1000); s <= 1000; s += 7 {
		src := rng.NewARC4(s)
		pts := GeneratePoints(src, 100, 100, NewPalette(src, VoronoiPaletteSize))
		if len(pts) < MinPoints || len(pts) > MaxPoints {
			t.Fatalf("seed %d: %d points, want %d..%d", s, len(pts), MinPoints, MaxPoints)
		}
		for _, p := range pts {
			if p.X < 0 || p.X >= 100 || p.Y < 0 || p.Y >= 100 {
				t.Fatalf("seed %d: point %v outside canvas", s, p)
			}
		}
	}

	palette := Palette{{}}
	if n := len(GeneratePoints(&seqSource{vals: []float64{0}}, 10, 10, palette)); n != MinPoints {
		t.Errorf("draw 0 gave %d points, want %d", n, MinPoints)
	}
	if n := len(GeneratePoints(&seqSource{vals: []float64{0.99999}}, 10, 10, palette)); n != MaxPoints {
		t.Errorf("draw 0.99999 gave %d points, want %d", n, MaxPoints)
	}
}

func TestGeneratePointsDrawOrder(t *testing.T) {
	// count draw, then x, y, color for each point
	src := &seqSource{vals: []float64{0, 0.25, 0.5, 0.75}}
	palette := Palette{{R: 10}, {R: 20}, {R: 30}, {R: 40}}
	pts := GeneratePoints(src, 100, 200, palette)

	want := Point{X: 25, Y: 100, Color: color.RGBA{R: 40}}
	if pts[0] != want {
		t.Errorf("first point = %+v, want %+v", pts[0], want)
	}
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestRasterizeTwoPoints(t *testing.T) {
	p0 := Point{X: 0, Y: 0, Color: red}
	p1 := Point{X: 3, Y: 3, Color: blue}

	tests := []struct {
		name   string
		points []Point
		metric Metric
		want   []string // R or B per pixel, row by row
	}{
		{
			name:   "euclidean, ties to first",
			points: []Point{p0, p1},
			metric: Euclidean,
			want:   []string{"RRRR", "RRRB", "RRBB", "RBBB"},
		},
		{
			name:   "manhattan, ties to first",
			points: []Point{p0, p1},
			metric: Manhattan,
			want:   []string{"RRRR", "RRRB", "RRBB", "RBBB"},
		},
		{
			name:   "reversed order flips ties",
			points: []Point{p1, p0},
			metric: Euclidean,
			want:   []string{"RRRB", "RRBB", "RBBB", "BBBB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canvas := NewImageCanvas(4, 4)
			if err := Rasterize(context.Background(), canvas, 4, 4, tt.points, tt.metric, VoronoiOptions{}); err != nil {
				t.Fatal(err)
			}
			img := canvas.Image()
			for y, row := range tt.want {
				for x, ch := range row {
					want := red
					if ch == 'B' {
						want = blue
					}
					if got := img.RGBAAt(x, y); got != want {
						t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestNearestMatchesReference(t *testing.T) {
	src := rng.NewARC4(7)
	points := GeneratePoints(src, 50, 50, NewPalette(src, VoronoiPaletteSize))

	for _, metric := range []Metric{Euclidean, Manhattan} {
		for y := 0; y < 50; y += 3 {
			for x := 0; x < 50; x += 3 {
				got := Nearest(points, float64(x), float64(y), metric)
				for i, p := range points {
					d := metric.Distance(float64(x), float64(y), p.X, p.Y)
					best := metric.Distance(float64(x), float64(y), points[got].X, points[got].Y)
					if d < best || (d == best && i < got) {
						t.Fatalf("%v (%d,%d): Nearest = %d, but point %d is at least as close and earlier", metric, x, y, got, i)
					}
				}
			}
		}
	}
}

func TestVoronoiDeterministic(t *testing.T) {
	render := func(seed int32, mode Mode) []byte {
		canvas := NewImageCanvas(100, 100)
		err := Render(context.Background(), canvas, mode, 100, 100, rng.NewARC4(seed), VoronoiOptions{})
		if err != nil {
			t.Fatal(err)
		}
		return canvas.Image().Pix
	}

	for _, mode := range []Mode{ModeVoronoiEuc, ModeVoronoiMan} {
		a, b := render(0, mode), render(0, mode)
		if !bytes.Equal(a, b) {
			t.Errorf("%s: seed 0 renders differ", mode)
		}
		for i := 3; i < len(a); i += 4 {
			if a[i] != 0xff {
				t.Fatalf("%s: pixel %d alpha = %d, want 255", mode, i/4, a[i])
			}
		}
		if bytes.Equal(a, render(1, mode)) {
			t.Errorf("%s: seeds 0 and 1 rendered identically", mode)
		}
	}

	if bytes.Equal(render(0, ModeVoronoiEuc), render(0, ModeVoronoiMan)) {
		t.Error("euclidean and manhattan renders of seed 0 are identical")
	}
}

func TestSeedZeroGrid(t *testing.T) {
	d, err := Describe(ModeGrid, 1000, 1000, rng.NewARC4(0))
	if err != nil {
		t.Fatal(err)
	}

	wantPalette := Palette{
		{R: 9, G: 21, B: 150, A: 0xff},
		{R: 134, G: 234, B: 61, A: 0xff},
		{R: 171, G: 163, B: 220, A: 0xff},
	}
	wantCells := []int{
		0, 2, 0, 1, 2, 2, 2, 2,
		2, 0, 0, 1, 0, 2, 1, 0,
		1, 1, 0, 2, 2, 0, 2, 1,
		2, 1, 1, 2, 2, 0, 2, 2,
		2, 0, 0, 1, 2, 0, 1, 1,
		2, 1, 0, 1, 0, 2, 0, 1,
		1, 2, 1, 1, 2, 1, 2, 1,
		0, 2, 1, 0, 2, 0, 2, 0,
	}
	for i, c := range wantPalette {
		if d.Palette[i] != c {
			t.Errorf("palette[%d] = %v, want %v", i, d.Palette[i], c)
		}
	}
	for i, c := range wantCells {
		if d.Cells[i] != c {
			t.Errorf("cell %d = %d, want %d", i, d.Cells[i], c)
		}
	}

	canvas := NewImageCanvas(1000, 1000)
	if err := Grid(canvas, 1000, 1000, rng.NewARC4(0)); err != nil {
		t.Fatal(err)
	}
	for i, c := range wantCells {
		x, y := (i%GridCols)*125+62, (i/GridCols)*125+62
		if got := canvas.Image().RGBAAt(x, y); got != wantPalette[c] {
			t.Fatalf("cell %d pixel = %v, want %v", i, got, wantPalette[c])
		}
	}
}

func TestSeedZeroVoronoi(t *testing.T) {
	src := rng.NewARC4(0)
	palette := NewPalette(src, VoronoiPaletteSize)
	points := GeneratePoints(src, 100, 100, palette)

	if len(points) != 30 {
		t.Fatalf("K = %d, want 30", len(points))
	}
	first := Point{X: 12.494231614475899, Y: 61.282089040850465, Color: color.RGBA{R: 9, G: 21, B: 150, A: 0xff}}
	if points[0] != first {
		t.Errorf("first point = %+v, want %+v", points[0], first)
	}

	tests := []struct {
		mode Mode
		want string
	}{
		{ModeVoronoiEuc, "e6288d8f27195c94d5823ed47ab5c4848912a50a9418b630917e7162d4c26c39"},
		{ModeVoronoiMan, "ce22788bae9f9d819f7b52bcca3d359c4be298a6a524278c4ebc144b9bedf922"},
	}
	for _, tt := range tests {
		canvas := NewImageCanvas(100, 100)
		if err := Render(context.Background(), canvas, tt.mode, 100, 100, rng.NewARC4(0), VoronoiOptions{}); err != nil {
			t.Fatal(err)
		}
		sum := sha256.Sum256(canvas.Image().Pix)
		if got := hex.EncodeToString(sum[:]); got != tt.want {
			t.Errorf("%s: pixel sha256 = %s, want %s", tt.mode, got, tt.want)
		}
	}
}

func TestDescribeMatchesRender(t *testing.T) {
	d, err := Describe(ModeVoronoiEuc, 64, 64, rng.NewARC4(99))
	if err != nil {
		t.Fatal(err)
	}

	want := NewImageCanvas(64, 64)
	if err := Rasterize(context.Background(), want, 64, 64, d.Points, Euclidean, VoronoiOptions{}); err != nil {
		t.Fatal(err)
	}
	got := NewImageCanvas(64, 64)
	if err := Render(context.Background(), got, ModeVoronoiEuc, 64, 64, rng.NewARC4(99), VoronoiOptions{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want.Image().Pix, got.Image().Pix) {
		t.Error("rasterizing described points differs from Render")
	}

	g, err := Describe(ModeGrid, 80, 80, rng.NewARC4(99))
	if err != nil {
		t.Fatal(err)
	}
	canvas := &recordingCanvas{}
	if err := Grid(canvas, 80, 80, rng.NewARC4(99)); err != nil {
		t.Fatal(err)
	}
	for i, idx := range g.Cells {
		if g.Palette[idx] != canvas.colors[i] {
			t.Fatalf("cell %d: described %v, drawn %v", i, g.Palette[idx], canvas.colors[i])
		}
	}
}

func TestVoronoiCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	canvas := &recordingCanvas{}
	err := Voronoi(ctx, canvas, 50, 50, rng.NewARC4(1), Euclidean, VoronoiOptions{})
	if !IsAborted(err) {
		t.Fatalf("err = %v, want aborted", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("aborted error should wrap context.Canceled: %v", err)
	}
	if len(canvas.puts) != 0 {
		t.Error("aborted render delivered a buffer")
	}
}

func TestVoronoiCancelledWhileYielding(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	yields := 0
	canvas := &recordingCanvas{}
	err := Voronoi(ctx, canvas, 50, 50, rng.NewARC4(1), Euclidean, VoronoiOptions{
		Async:       true,
		FrameBudget: 0,
		Yielder: YielderFunc(func(context.Context) error {
			yields++
			cancel()
			return nil
		}),
	})

	if !IsAborted(err) {
		t.Fatalf("err = %v, want aborted", err)
	}
	if yields != 1 {
		t.Errorf("yields = %d, want 1 (cancellation re-checked on resume)", yields)
	}
	if len(canvas.puts) != 0 {
		t.Error("aborted render delivered a buffer")
	}
}

func TestVoronoiSyncNeverYields(t *testing.T) {
	yields := 0
	canvas := NewImageCanvas(40, 40)
	err := Voronoi(context.Background(), canvas, 40, 40, rng.NewARC4(1), Manhattan, VoronoiOptions{
		Async:       false,
		FrameBudget: 0,
		Yielder: YielderFunc(func(context.Context) error {
			yields++
			return nil
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if yields != 0 {
		t.Errorf("sync render yielded %d times", yields)
	}
}

func TestVoronoiYieldsOnFrameBudget(t *testing.T) {
	// Every clock read advances 10ms, so a 16ms budget is spent every
	// second row.
	var clock time.Time
	now := func() time.Time {
		v := clock
		clock = clock.Add(10 * time.Millisecond)
		return v
	}

	yields := 0
	err := Voronoi(context.Background(), NewImageCanvas(10, 10), 10, 10, rng.NewARC4(3), Euclidean, VoronoiOptions{
		Async:       true,
		FrameBudget: 16 * time.Millisecond,
		Now:         now,
		Yielder: YielderFunc(func(context.Context) error {
			yields++
			return nil
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if yields != 5 {
		t.Errorf("yields = %d, want 5", yields)
	}
}

func TestVoronoiCanvasFailure(t *testing.T) {
	sentinel := errors.New("canvas detached")
	canvas := &recordingCanvas{err: sentinel}

	err := Voronoi(context.Background(), canvas, 8, 8, rng.NewARC4(1), Euclidean, VoronoiOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsAborted(err) {
		t.Error("canvas failure reported as abort")
	}
	if !perrors.Is(err, perrors.ErrCodeRenderFailed) {
		t.Errorf("code = %v, want %v", perrors.GetCode(err), perrors.ErrCodeRenderFailed)
	}
	if !errors.Is(err, sentinel) {
		t.Error("failure should wrap the canvas error")
	}
}

func TestVoronoiYielderFailure(t *testing.T) {
	sentinel := errors.New("scheduler gone")
	err := Voronoi(context.Background(), NewImageCanvas(8, 8), 8, 8, rng.NewARC4(1), Euclidean, VoronoiOptions{
		Async:   true,
		Yielder: YielderFunc(func(context.Context) error { return sentinel }),
	})
	if !errors.Is(err, sentinel) || IsAborted(err) {
		t.Errorf("err = %v, want render failure wrapping %v", err, sentinel)
	}
}

func TestFrameYielderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := FrameYielder(time.Hour).Yield(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Yield = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("FrameYielder did not return promptly on cancellation")
	}

	if err := FrameYielder(time.Millisecond).Yield(context.Background()); err != nil {
		t.Errorf("Yield = %v, want nil", err)
	}
}

func TestRenderUnknownMode(t *testing.T) {
	err := Render(context.Background(), NewImageCanvas(4, 4), Mode("hexagon"), 4, 4, rng.NewARC4(0), VoronoiOptions{})
	if !perrors.Is(err, perrors.ErrCodeInvalidMode) {
		t.Errorf("err = %v, want %v", err, perrors.ErrCodeInvalidMode)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", DefaultMode, false},
		{"grid", ModeGrid, false},
		{"voronoi-euc", ModeVoronoiEuc, false},
		{"voronoi-man", ModeVoronoiMan, false},
		{"voronoi", "", true},
		{"GRID", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestModeNext(t *testing.T) {
	m := ModeGrid
	for range Modes {
		m = m.Next()
	}
	if m != ModeGrid {
		t.Errorf("cycling through all modes ended at %q", m)
	}
	if ModeVoronoiMan.Metric() != Manhattan || ModeVoronoiEuc.Metric() != Euclidean {
		t.Error("mode metrics mismatched")
	}
}
