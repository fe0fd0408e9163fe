package render

import (
	"context"
	"runtime"
	"time"
)

// Yielder suspends a render pass so other work can run. Yield returns once
// the pass may continue; the caller re-checks cancellation afterwards, so a
// yielder may return early, or with ctx.Err(), when ctx is done.
type Yielder interface {
	Yield(ctx context.Context) error
}

// YielderFunc adapts a function to a [Yielder].
type YielderFunc func(ctx context.Context) error

// Yield calls f(ctx).
func (f YielderFunc) Yield(ctx context.Context) error { return f(ctx) }

// Gosched yields the processor to other goroutines and resumes immediately.
var Gosched Yielder = YielderFunc(func(ctx context.Context) error {
	runtime.Gosched()
	return nil
})

// FrameYielder returns a Yielder that resumes on the next frame boundary of a
// clock ticking every interval, or as soon as ctx is done.
func FrameYielder(interval time.Duration) Yielder {
	return YielderFunc(func(ctx context.Context) error {
		t := time.NewTimer(interval)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	})
}
