package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ive-dev/ive/pkg/dom"
	"github.com/ive-dev/ive/pkg/ive"
)

// Default tracer name.
const defaultTracerName = "ive"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "ive").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(p trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = p
	}
}

// Tracing is an ive.Observer recording one span per cell mutation. The
// span covers every re-render the mutation caused and carries the number
// of replaced and stale nodes.
//
// Observers run on the loop goroutine, so the active span needs no lock.
type Tracing struct {
	tracer trace.Tracer

	span     trace.Span
	replaced int
	stale    int
}

// NewTracing creates the tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{tracer: tracer}
}

// CellMutated implements ive.Observer.
func (t *Tracing) CellMutated(cellID string, subscribers int) func() {
	// Nested mutations (a Set inside a render) nest their spans.
	parent := context.Background()
	if t.span != nil {
		parent = trace.ContextWithSpan(parent, t.span)
	}
	_, span := t.tracer.Start(parent, "ive.notify",
		trace.WithAttributes(
			attribute.String("ive.cell", cellID),
			attribute.Int("ive.subscribers", subscribers),
		),
	)

	prevSpan, prevReplaced, prevStale := t.span, t.replaced, t.stale
	t.span, t.replaced, t.stale = span, 0, 0
	return func() {
		span.SetAttributes(
			attribute.Int("ive.replaced", t.replaced),
			attribute.Int("ive.stale", t.stale),
		)
		span.End()
		t.span, t.replaced, t.stale = prevSpan, prevReplaced, prevStale
	}
}

// UpdateDispatched implements ive.Observer.
func (t *Tracing) UpdateDispatched(_ ive.EntryID, stale bool) {
	if t.span == nil {
		return
	}
	if stale {
		t.stale++
	}
}

// NodeReplaced implements ive.Observer.
func (t *Tracing) NodeReplaced(_, _ *dom.Node) {
	if t.span != nil {
		t.replaced++
	}
}

// RegistryChanged implements ive.Observer.
func (t *Tracing) RegistryChanged(int) {}

// RouteResolved implements ive.RouteObserver. Resolutions are recorded as
// events on the active mutation span, or as their own span otherwise.
func (t *Tracing) RouteResolved(outcome, pattern string) {
	attrs := trace.WithAttributes(
		attribute.String("ive.route.outcome", outcome),
		attribute.String("ive.route.pattern", pattern),
	)
	if t.span != nil {
		t.span.AddEvent("route.resolved", attrs)
		return
	}
	_, span := t.tracer.Start(context.Background(), "ive.route", attrs)
	span.End()
}
