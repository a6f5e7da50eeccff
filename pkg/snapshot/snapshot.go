// Package snapshot renders an application at a location into a complete
// HTML document. The preview server and the exporter both build on it.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/ive"
)

// App mounts an application into a fresh runtime. It runs on the runtime's
// loop goroutine.
type App func(rt *ive.Runtime) error

// Options configures Render.
type Options struct {
	// Runtime are extra runtime options. WithLocation is always set by
	// Render.
	Runtime []ive.Option

	// Settle keeps the loop running this long after mounting so futures
	// settled by goroutines make it into the snapshot.
	Settle time.Duration
}

// Option configures Render.
type Option func(*Options)

// WithRuntimeOptions adds runtime options.
func WithRuntimeOptions(opts ...ive.Option) Option {
	return func(o *Options) {
		o.Runtime = append(o.Runtime, opts...)
	}
}

// WithSettle sets the settle window.
func WithSettle(d time.Duration) Option {
	return func(o *Options) {
		o.Settle = d
	}
}

// Render mounts app at href, runs queued loop tasks, and returns the
// document HTML. A panic raised by a render function is returned as an
// error.
func Render(ctx context.Context, app App, href string, opts ...Option) (html string, err error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	rt, err := ive.New(append(o.Runtime, ive.WithLocation(href))...)
	if err != nil {
		return "", err
	}
	defer rt.Close()

	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()

	if err := app(rt); err != nil {
		return "", fmt.Errorf("snapshot: mount %s: %w", href, err)
	}
	if err := Settle(ctx, rt.Loop(), o.Settle); err != nil {
		return "", err
	}
	return rt.Document().HTML(), nil
}

// Settle drains the loop, then keeps serving tasks for window (if
// positive). It returns ctx's error if ctx ends first.
func Settle(ctx context.Context, loop *ive.Loop, window time.Duration) error {
	loop.Drain()
	if window <= 0 {
		return ctx.Err()
	}
	sctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()
	if err := loop.Run(sctx); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func recovered(r any) error {
	if err, ok := r.(error); ok {
		return errors.FromError(err, "E002")
	}
	return fmt.Errorf("snapshot: render panic: %v", r)
}
