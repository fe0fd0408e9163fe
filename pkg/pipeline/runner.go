package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uniquepfp/pkg/cache"
	"github.com/matzehuels/uniquepfp/pkg/observability"
	"github.com/matzehuels/uniquepfp/pkg/seed"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete seed → render → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Seed:      seed.FromString(opts.Username),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.RenderSize = opts.RenderSize()

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			opts.Logger.Debug("artifacts from cache", "username", opts.Username, "formats", opts.Formats)
			return result, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Mode, opts.Formats)

	// Stage 1: Render
	renderStart := time.Now()
	img, err := RenderImage(ctx, result.Seed, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Mode, opts.Formats, result.Stats.RenderTime, err)
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Image = img

	opts.Logger.Info("rendered avatar",
		"username", opts.Username,
		"seed", result.Seed,
		"mode", opts.Mode,
		"size", result.Stats.RenderSize,
		"duration", result.Stats.RenderTime)

	// Stage 2: Encode
	encodeStart := time.Now()
	artifacts, err := Encode(img, result.Seed, opts)
	result.Stats.EncodeTime = time.Since(encodeStart)
	hooks.OnRenderComplete(ctx, opts.Mode, opts.Formats, result.Stats.RenderTime+result.Stats.EncodeTime, err)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Artifacts = artifacts

	for format, data := range artifacts {
		_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(opts.Username, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}

	opts.Logger.Debug("encoded outputs",
		"formats", opts.Formats,
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// cached returns every requested artifact when all of them are in the cache.
func (r *Runner) cached(ctx context.Context, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(opts.Username, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
