package render_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/uniquepfp/pkg/render"
	"github.com/matzehuels/uniquepfp/pkg/rng"
	"github.com/matzehuels/uniquepfp/pkg/seed"
)

func ExampleRender_grid() {
	s := seed.FromString("octocat")
	canvas := render.NewImageCanvas(64, 64)

	err := render.Render(context.Background(), canvas, render.ModeGrid, 64, 64, rng.NewARC4(s), render.VoronoiOptions{})
	fmt.Println("Error:", err)
	fmt.Println("Bounds:", canvas.Bounds())
	// Output:
	// Error: <nil>
	// Bounds: (0,0)-(64,64)
}

func ExampleDescribe() {
	s := seed.FromString("octocat")

	d, _ := render.Describe(render.ModeVoronoiEuc, 128, 128, rng.NewARC4(s))
	k := len(d.Points)

	fmt.Println("Palette:", len(d.Palette))
	fmt.Println("Points in range:", k >= render.MinPoints && k <= render.MaxPoints)
	// Output:
	// Palette: 6
	// Points in range: true
}
