// Package pipeline provides one-shot avatar generation for uniquepfp.
//
// This package implements the seed → render → encode pipeline used by the
// CLI. The interactive path lives in the orchestrator package; both share the
// renderers in package render and produce identical pixels for the same
// inputs.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Seed: Hash the username into a 32-bit seed
//  2. Render: Draw the avatar, optionally supersampled and downscaled
//  3. Encode: Produce output in the requested formats (PNG, JSON)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	opts := pipeline.Options{
//	    Username: "octocat",
//	    Mode:     "voronoi-euc",
//	    Formats:  []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"image"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uniquepfp/pkg/cache"
	perrors "github.com/matzehuels/uniquepfp/pkg/errors"
	"github.com/matzehuels/uniquepfp/pkg/render"
	"github.com/matzehuels/uniquepfp/pkg/rng"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSize is the default edge length of the output image in pixels.
	DefaultSize = 1000

	// SupersampleFactor is how much larger supersampled renders are drawn
	// before being downscaled to the output size.
	SupersampleFactor = 2
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one avatar.
type Options struct {
	Username    string   `json:"username"`
	Mode        string   `json:"mode,omitempty"`
	Size        int      `json:"size,omitempty"`
	Supersample bool     `json:"supersample,omitempty"`
	RNG         string   `json:"rng,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Seed is the hash of the username.
	Seed int32

	// Image is the avatar as drawn, at [Options.RenderSize]. It is nil when
	// every artifact came from the cache.
	Image *image.RGBA

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether rendering was skipped.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RenderSize int
	RenderTime time.Duration
	EncodeTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return perrors.New(perrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills in zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Mode == "" {
		o.Mode = string(render.DefaultMode)
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.RNG == "" {
		o.RNG = rng.DefaultName
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := perrors.ValidateUsername(o.Username); err != nil {
		return err
	}
	if _, err := render.ParseMode(o.Mode); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidMode, err, "mode")
	}
	if err := perrors.ValidateSize(o.RenderSize()); err != nil {
		return err
	}
	if _, err := rng.Lookup(o.RNG); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "rng")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// RenderSize is the edge length the renderer draws at before any
// downscaling.
func (o *Options) RenderSize() int {
	if o.Supersample {
		return o.Size * SupersampleFactor
	}
	return o.Size
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Mode:        o.Mode,
		Size:        o.Size,
		Supersample: o.Supersample,
		RNG:         o.RNG,
		Format:      format,
	}
}
