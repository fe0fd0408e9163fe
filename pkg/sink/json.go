package sink

import (
	"encoding/json"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/uniquepfp/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	username string
	seed     int32
	hasSeed  bool
	rng      string
	width    int
	height   int
}

// WithJSONUsername records the username the avatar was derived from.
func WithJSONUsername(u string) JSONOption { return func(r *jsonRenderer) { r.username = u } }

// WithJSONSeed records the numeric seed so the render can be reproduced.
func WithJSONSeed(s int32) JSONOption {
	return func(r *jsonRenderer) { r.seed = s; r.hasSeed = true }
}

// WithJSONRNG records the name of the random source.
func WithJSONRNG(name string) JSONOption { return func(r *jsonRenderer) { r.rng = name } }

// WithJSONOutputSize reports geometry in the space of a width×height image
// when the description was drawn at a different size, as with supersampled
// renders. Point coordinates are scaled and the drawn size is kept in
// render_width and render_height.
func WithJSONOutputSize(width, height int) JSONOption {
	return func(r *jsonRenderer) { r.width, r.height = width, height }
}

type jsonOutput struct {
	Username string      `json:"username,omitempty"`
	Seed     *int32      `json:"seed,omitempty"`
	RNG      string      `json:"rng,omitempty"`
	Mode     string      `json:"mode"`
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	RenderW  int         `json:"render_width,omitempty"`
	RenderH  int         `json:"render_height,omitempty"`
	Palette  []string    `json:"palette"`
	Cells    []int       `json:"cells,omitempty"`
	Points   []jsonPoint `json:"points,omitempty"`
}

type jsonPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// RenderJSON exports an avatar description as a pretty-printed JSON document.
// Colors are written as lowercase hex triplets.
func RenderJSON(d render.Description, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Username: r.username,
		RNG:      r.rng,
		Mode:     d.Mode.String(),
		Width:    d.Width,
		Height:   d.Height,
		Palette:  make([]string, len(d.Palette)),
		Cells:    d.Cells,
	}
	sx, sy := 1.0, 1.0
	if r.width > 0 && r.height > 0 && (r.width != d.Width || r.height != d.Height) {
		sx = float64(r.width) / float64(d.Width)
		sy = float64(r.height) / float64(d.Height)
		out.Width, out.Height = r.width, r.height
		out.RenderW, out.RenderH = d.Width, d.Height
	}
	if r.hasSeed {
		seed := r.seed
		out.Seed = &seed
	}
	for i, c := range d.Palette {
		out.Palette[i] = hex(c)
	}
	if len(d.Points) > 0 {
		out.Points = make([]jsonPoint, len(d.Points))
		for i, p := range d.Points {
			out.Points[i] = jsonPoint{X: p.X * sx, Y: p.Y * sy, Color: hex(p.Color)}
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

func hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
