// Package export renders application pages to static HTML snapshots and
// stores them in a directory or an S3 bucket.
package export

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/ive"
	"github.com/ive-dev/ive/pkg/snapshot"
)

// DefaultTimeout bounds the rendering of one page.
const DefaultTimeout = 30 * time.Second

// Exporter renders pages and writes them to a sink.
type Exporter struct {
	app     snapshot.App
	sink    Sink
	runtime []ive.Option
	settle  time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRuntimeOptions sets options for every rendering runtime.
func WithRuntimeOptions(opts ...ive.Option) Option {
	return func(e *Exporter) {
		e.runtime = append(e.runtime, opts...)
	}
}

// WithSettle keeps each page's loop running for d after mounting, so
// pages waiting on goroutines can finish.
func WithSettle(d time.Duration) Option {
	return func(e *Exporter) {
		e.settle = d
	}
}

// WithTimeout bounds the rendering of one page.
func WithTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		e.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = l
	}
}

// New creates an exporter writing app's pages to sink.
func New(app snapshot.App, sink Sink, opts ...Option) *Exporter {
	e := &Exporter{
		app:     app,
		sink:    sink,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes one exported page.
type Result struct {
	Path  string
	Bytes int
}

// Export renders and writes every path in order. It stops at the first
// failure and returns the pages written so far.
func (e *Exporter) Export(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		n, err := e.page(ctx, p)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Path: p, Bytes: n})
		e.logger.Info("exported", "path", p, "bytes", n)
	}
	return results, nil
}

func (e *Exporter) page(ctx context.Context, location string) (int, error) {
	pctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	html, err := snapshot.Render(pctx, e.app, location,
		snapshot.WithRuntimeOptions(e.runtime...),
		snapshot.WithSettle(e.settle),
	)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return 0, errors.New("E202").WithField("path", location).Wrap(err)
		}
		return 0, errors.FromError(err, "E201").WithField("path", location)
	}

	if err := e.sink.Write(ctx, location, []byte(html)); err != nil {
		return 0, errors.New("E201").WithField("path", location).Wrap(err)
	}
	return len(html), nil
}
