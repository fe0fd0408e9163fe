// Package orchestrator schedules live avatar renders for an interactive
// display.
//
// An [Orchestrator] owns the current username and mode and reacts to input
// changes by superseding in-flight work. Grid avatars are cheap and are
// painted straight onto the [Surface]. Voronoi avatars are rendered twice:
//
//   - a quick pass at a small size, started immediately
//   - a supersample pass at a large size, started once input has settled
//
// Each pass runs on its own goroutine with its own buffer and random stream,
// and occupies one of two slots. Starting a pass cancels whatever held its
// slot. A finished pass is committed (scaled onto the surface) only if it was
// not cancelled and the mode and username it was started with are still
// current.
//
// # Usage
//
//	surface := orchestrator.NewSurface(cfg.OutputSize)
//	o := orchestrator.New(cfg, surface, orchestrator.WithLogger(logger))
//	defer o.Close()
//
//	o.InputChanged("octocat")
//	o.ModeChanged(render.ModeVoronoiMan)
package orchestrator
