// Package pkg provides the core libraries for uniquepfp avatar rendering.
//
// # Overview
//
// uniquepfp turns a username into a profile picture. The username is hashed
// to a 32-bit seed, the seed drives a deterministic random source, and the
// random source decides every color and shape in the picture. The pkg
// directory is organized into these areas:
//
//  1. [seed] and [rng] - Username hashing and seeded random sources
//  2. [render] - Grid and Voronoi rasterizers
//  3. [sink] - PNG and JSON encoders
//  4. [pipeline] - Orchestration (validate → render → encode) with caching
//  5. [orchestrator] - Progressive interactive rendering (quick → supersample)
//  6. [cache], [observability], [errors], [buildinfo] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow through uniquepfp:
//
//	Username
//	   ↓
//	[seed] package (string hash → int32)
//	   ↓
//	[rng] package (seeded source of draws in [0, 1))
//	   ↓
//	[render] package (palette, grid cells or Voronoi points, pixels)
//	   ↓
//	[sink] package (PNG/JSON output)
//
// # Quick Start
//
// Render a Voronoi avatar and encode it as PNG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/uniquepfp/pkg/render"
//	    "github.com/matzehuels/uniquepfp/pkg/rng"
//	    "github.com/matzehuels/uniquepfp/pkg/seed"
//	    "github.com/matzehuels/uniquepfp/pkg/sink"
//	)
//
//	src := rng.NewARC4(seed.FromString("octocat"))
//	canvas := render.NewImageCanvas(512, 512)
//	err := render.Render(context.Background(), canvas, render.ModeVoronoiEuc, 512, 512, src, render.VoronoiOptions{})
//	png, err := sink.RenderPNG(canvas.Image())
//
// For batch use, [pipeline.Runner] adds validation, caching and
// multi-format output on top of these steps.
package pkg
