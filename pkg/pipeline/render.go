package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/matzehuels/uniquepfp/pkg/render"
	"github.com/matzehuels/uniquepfp/pkg/rng"
	"github.com/matzehuels/uniquepfp/pkg/sink"
)

// RenderImage draws the avatar for seed at [Options.RenderSize]. Supersampled
// images are twice the requested size; [Encode] downscales them.
// Options must already be validated.
func RenderImage(ctx context.Context, s int32, opts Options) (*image.RGBA, error) {
	mode, factory, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	size := opts.RenderSize()
	canvas := render.NewImageCanvas(size, size)
	if err := render.Render(ctx, canvas, mode, size, size, factory(s), render.VoronoiOptions{}); err != nil {
		return nil, err
	}

	return canvas.Image(), nil
}

// Encode produces the requested formats for a rendered avatar.
func Encode(img *image.RGBA, s int32, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG:
			data, err = sink.RenderPNG(img, sink.WithSize(opts.Size))
		case FormatJSON:
			data, err = describe(s, opts)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// describe replays the random stream on a fresh source to export the
// geometry behind the image.
func describe(s int32, opts Options) ([]byte, error) {
	mode, factory, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	size := opts.RenderSize()
	d, err := render.Describe(mode, size, size, factory(s))
	if err != nil {
		return nil, err
	}
	return sink.RenderJSON(d,
		sink.WithJSONUsername(opts.Username),
		sink.WithJSONSeed(s),
		sink.WithJSONRNG(opts.RNG),
		sink.WithJSONOutputSize(opts.Size, opts.Size),
	)
}

func resolve(opts Options) (render.Mode, rng.Factory, error) {
	mode, err := render.ParseMode(opts.Mode)
	if err != nil {
		return "", nil, err
	}
	factory, err := rng.Lookup(opts.RNG)
	if err != nil {
		return "", nil, err
	}
	return mode, factory, nil
}
