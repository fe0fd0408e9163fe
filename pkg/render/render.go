package render

import (
	"context"

	perrors "github.com/matzehuels/uniquepfp/pkg/errors"
	"github.com/matzehuels/uniquepfp/pkg/rng"
)

// Render draws a width×height avatar in the given mode. Grid renders ignore
// ctx and opts; Voronoi renders honor both.
//
// Errors are either aborts ([IsAborted]) or failures carrying
// [perrors.ErrCodeRenderFailed]; an unknown mode is reported as
// [perrors.ErrCodeInvalidMode].
func Render(ctx context.Context, canvas Canvas, mode Mode, width, height int, src rng.Source, opts VoronoiOptions) error {
	switch {
	case mode == ModeGrid:
		if err := Grid(canvas, height, width, src); err != nil {
			return perrors.Wrap(perrors.ErrCodeRenderFailed, err, "grid render")
		}
		return nil
	case mode.IsVoronoi():
		return Voronoi(ctx, canvas, height, width, src, mode.Metric(), opts)
	default:
		return perrors.New(perrors.ErrCodeInvalidMode, "unknown mode: %q", mode)
	}
}

// IsAborted reports whether err came from a render that observed
// cancellation. Aborted renders are expected and should be discarded
// silently.
func IsAborted(err error) bool {
	return perrors.Is(err, perrors.ErrCodeRenderAborted)
}

// checkpoint converts a done context into an abort.
func checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return perrors.Wrap(perrors.ErrCodeRenderAborted, err, "render aborted")
	}
	return nil
}
