// Package render draws deterministic avatars from a seeded random stream.
//
// # Overview
//
// Two renderers share one contract: they take a [Canvas] to deliver pixels
// to, the canvas dimensions, and an [rng.Source] that is consumed in a fixed
// order. The same source state always produces the same pixels.
//
//   - [Grid]: an 8×8 mosaic drawn from a 3-color [Palette]. Cheap, always
//     synchronous, never cancelled.
//   - [Voronoi]: 30–59 colored seed points from a 6-color palette; every
//     pixel takes the color of its nearest point under a [Metric]. This is a
//     brute-force O(width·height·points) scan, run row by row with
//     cancellation checkpoints and optional cooperative yielding.
//
// [Render] dispatches on a [Mode] ("grid", "voronoi-euc", "voronoi-man").
//
// # Cancellation
//
// [Voronoi] polls its context before rasterizing, at the start of every row,
// right after every yield, and once more before delivering the buffer. A
// cancelled pass returns an error for which [IsAborted] reports true and
// never touches the canvas. Any other error is a render failure.
//
//	ctx, cancel := context.WithCancel(ctx)
//	canvas := render.NewImageCanvas(size, size)
//	err := render.Voronoi(ctx, canvas, size, size, rng.NewARC4(seed), render.Euclidean,
//	    render.VoronoiOptions{Async: true, FrameBudget: 16 * time.Millisecond})
//	if render.IsAborted(err) {
//	    return // superseded, discard silently
//	}
//
// # Yielding
//
// With Async set, the scan hands control to a [Yielder] whenever a row
// finishes after the frame budget has elapsed since the last yield. The
// default yielder calls runtime.Gosched; [FrameYielder] waits for the next
// frame tick instead.
package render
