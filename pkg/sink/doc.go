// Package sink encodes rendered avatars into output formats.
//
// Two formats are supported:
//
//   - PNG via [RenderPNG], optionally rescaled to a target size
//   - JSON via [RenderJSON], which exports the palette and geometry that
//     produced the image rather than its pixels
//
// Both sinks are pure functions of their inputs and are safe to call
// concurrently.
package sink
