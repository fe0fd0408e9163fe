package orchestrator

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/uniquepfp/pkg/observability"
	"github.com/matzehuels/uniquepfp/pkg/render"
	"github.com/matzehuels/uniquepfp/pkg/rng"
	"github.com/matzehuels/uniquepfp/pkg/seed"
)

// Slot identifies a render pass lane. At most one pass runs per slot.
type Slot string

const (
	SlotQuick       Slot = "quick"
	SlotSupersample Slot = "supersample"

	// SlotDirect labels grid renders painted straight onto the surface.
	// It never holds a pass.
	SlotDirect Slot = "direct"
)

// Drop reasons reported to [observability.RenderHooks.OnDrop].
const (
	DropAborted   = "aborted"
	DropFailed    = "failed"
	DropCancelled = "cancelled"
	DropStale     = "stale"
)

// Commit describes a render that reached the surface.
type Commit struct {
	Slot     Slot
	PassID   string
	Mode     render.Mode
	Username string
	Seed     int32
}

// Option configures an [Orchestrator].
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRNG overrides the random source factory named by the config.
func WithRNG(f rng.Factory) Option {
	return func(o *Orchestrator) { o.factory = f }
}

// WithYielder sets the yielder used by asynchronous passes.
func WithYielder(y render.Yielder) Option {
	return func(o *Orchestrator) { o.yielder = y }
}

// WithHooks overrides the globally registered render hooks.
func WithHooks(h observability.RenderHooks) Option {
	return func(o *Orchestrator) { o.hooks = h }
}

// WithOnCommit registers a callback invoked after every commit. It runs
// outside the orchestrator lock.
func WithOnCommit(fn func(Commit)) Option {
	return func(o *Orchestrator) { o.onCommit = fn }
}

// WithMode sets the initial mode.
func WithMode(m render.Mode) Option {
	return func(o *Orchestrator) { o.mode = m }
}

// Orchestrator drives live rendering. All methods are safe for concurrent
// use.
type Orchestrator struct {
	cfg      Config
	surface  *Surface
	logger   *log.Logger
	factory  rng.Factory
	yielder  render.Yielder
	hooks    observability.RenderHooks
	onCommit func(Commit)

	mu       sync.Mutex
	username string
	mode     render.Mode
	slots    map[Slot]*pass
	settle   *time.Timer
	debounce *time.Timer
	trigger  uint64
	input    uint64
	closed   bool

	wg sync.WaitGroup
}

type pass struct {
	id     string
	cancel context.CancelFunc
}

// New creates an orchestrator rendering onto surface. cfg is assumed valid;
// an unknown RNG name falls back to the default source.
func New(cfg Config, surface *Surface, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg,
		surface: surface,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		yielder: render.Gosched,
		hooks:   observability.Render(),
		mode:    render.DefaultMode,
		slots:   make(map[Slot]*pass),
	}
	if f, err := rng.Lookup(cfg.RNG); err == nil {
		o.factory = f
	} else {
		o.factory = func(s int32) rng.Source { return rng.NewARC4(s) }
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Surface returns the display surface.
func (o *Orchestrator) Surface() *Surface {
	return o.surface
}

// Username returns the current username.
func (o *Orchestrator) Username() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.username
}

// Mode returns the current mode.
func (o *Orchestrator) Mode() render.Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// InputChanged records new username text. Bursts are coalesced: the
// username is stored and a render triggered only once input has been quiet
// for the configured debounce interval.
func (o *Orchestrator) InputChanged(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	if o.debounce != nil {
		o.debounce.Stop()
	}
	o.input++
	gen := o.input
	o.debounce = time.AfterFunc(o.cfg.Debounce, func() {
		o.mu.Lock()
		if o.closed || o.input != gen {
			o.mu.Unlock()
			return
		}
		o.debounce = nil
		o.username = text
		o.mu.Unlock()
		o.TriggerRender()
	})
}

// ModeChanged switches the mode and renders immediately.
func (o *Orchestrator) ModeChanged(m render.Mode) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.mode = m
	o.mu.Unlock()
	o.TriggerRender()
}

// TriggerRender supersedes all in-flight work and renders the current
// username and mode.
func (o *Orchestrator) TriggerRender() {
	var commit *Commit

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.trigger++
	gen := o.trigger
	username, mode := o.username, o.mode
	s := seed.FromString(username)

	o.cancelSlotLocked(SlotQuick)
	o.cancelSlotLocked(SlotSupersample)
	o.stopSettleLocked()

	o.logger.Debug("trigger render", "username", username, "mode", mode, "seed", s)

	if mode == render.ModeGrid {
		size := o.cfg.OutputSize
		if err := render.Grid(o.surface, size, size, o.factory(s)); err != nil {
			o.logger.Error("grid render failed", "err", err)
		} else {
			commit = &Commit{Slot: SlotDirect, Mode: mode, Username: username, Seed: s}
		}
	} else {
		o.startPassLocked(SlotQuick, o.cfg.QuickSize, s, mode, username)
		o.settle = time.AfterFunc(o.cfg.SettleDelay, func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if o.closed || o.trigger != gen {
				return
			}
			o.settle = nil
			o.cancelSlotLocked(SlotSupersample)
			o.startPassLocked(SlotSupersample, o.cfg.SupersampleSize, s, mode, username)
		})
	}
	o.mu.Unlock()

	if commit != nil && o.onCommit != nil {
		o.onCommit(*commit)
	}
}

// Close cancels all passes, stops pending timers and waits for pass
// goroutines to exit. Later calls to other methods are no-ops.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.stopSettleLocked()
	if o.debounce != nil {
		o.debounce.Stop()
		o.debounce = nil
	}
	o.cancelSlotLocked(SlotQuick)
	o.cancelSlotLocked(SlotSupersample)
	o.mu.Unlock()

	o.wg.Wait()
}

// Wait blocks until no pass goroutines are running. Passes scheduled by
// timers that have not fired yet are not waited for.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) startPassLocked(slot Slot, size int, s int32, mode render.Mode, username string) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &pass{id: uuid.NewString(), cancel: cancel}
	o.slots[slot] = p

	o.wg.Add(1)
	go o.run(ctx, p, slot, size, s, mode, username)
}

func (o *Orchestrator) run(ctx context.Context, p *pass, slot Slot, size int, s int32, mode render.Mode, username string) {
	defer o.wg.Done()
	defer p.cancel()

	logger := o.logger.With("slot", slot, "pass", p.id, "size", size)
	o.hooks.OnPassStart(ctx, string(slot), p.id, string(mode), size)

	canvas := render.NewImageCanvas(size, size)
	opts := render.VoronoiOptions{
		Async:       o.cfg.Async(size),
		FrameBudget: o.cfg.FrameBudget,
		Yielder:     o.yielder,
	}

	start := time.Now()
	err := render.Render(ctx, canvas, mode, size, size, o.factory(s), opts)
	duration := time.Since(start)
	o.hooks.OnPassComplete(ctx, string(slot), p.id, string(mode), size, duration, err)

	reason := o.commit(ctx, p, slot, canvas, mode, username, err)
	switch reason {
	case "":
		logger.Debug("committed", "duration", duration)
		o.hooks.OnCommit(ctx, string(slot), p.id)
		if o.onCommit != nil {
			o.onCommit(Commit{Slot: slot, PassID: p.id, Mode: mode, Username: username, Seed: s})
		}
	case DropFailed:
		logger.Error("render failed", "err", err)
		o.hooks.OnDrop(ctx, string(slot), p.id, reason)
	default:
		logger.Debug("dropped", "reason", reason)
		o.hooks.OnDrop(ctx, string(slot), p.id, reason)
	}
}

// commit blits a finished pass if it is still wanted and returns the drop
// reason otherwise. The pass handle is released either way.
func (o *Orchestrator) commit(ctx context.Context, p *pass, slot Slot, canvas *render.ImageCanvas, mode render.Mode, username string, err error) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.slots[slot] == p {
		delete(o.slots, slot)
	}

	switch {
	case render.IsAborted(err):
		return DropAborted
	case err != nil:
		return DropFailed
	case ctx.Err() != nil:
		return DropCancelled
	case mode != o.mode || username != o.username:
		return DropStale
	}
	o.surface.Blit(canvas.Image())
	return ""
}

func (o *Orchestrator) cancelSlotLocked(slot Slot) {
	if p, ok := o.slots[slot]; ok {
		p.cancel()
		delete(o.slots, slot)
	}
}

func (o *Orchestrator) stopSettleLocked() {
	if o.settle != nil {
		o.settle.Stop()
		o.settle = nil
	}
}
