package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ive-dev/ive/pkg/dom"
	"github.com/ive-dev/ive/pkg/ive"
	"github.com/ive-dev/ive/pkg/router"
)

func counter(t *testing.T, rt *ive.Runtime) (*ive.State[int], *ive.Binding) {
	t.Helper()
	count := ive.NewState(rt, 0)
	b := ive.Watch1(rt, count, func(n int, _ ive.Props) *dom.Node {
		return dom.NewElement("p")
	})
	return count, b
}

func TestMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	rt, err := ive.New(ive.WithObserver(m), ive.WithLocation("/x"))
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	count, b := counter(t, rt)
	rt.Mount(b.Render(nil))
	rt.Mount(b.Render(nil))
	detached := b.Render(nil)
	rt.Mount(detached)
	detached.Remove()

	count.Set(1)

	if got := testutil.ToFloat64(m.mutations); got != 1 {
		t.Errorf("mutations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.updates.WithLabelValues("replaced")); got != 2 {
		t.Errorf("replaced updates = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.replaced); got != 2 {
		t.Errorf("nodes replaced = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.registryEntries); got != 1 {
		t.Errorf("registry entries = %v, want 1", got)
	}

	router.New(rt, "/", []router.Route{{Pattern: "/x", Handler: router.Static(dom.NewElement("p"))}})
	if got := testutil.ToFloat64(m.routes.WithLabelValues("matched")); got != 1 {
		t.Errorf("matched routes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.registryEntries); got != 2 {
		t.Errorf("registry entries = %v, want 2", got)
	}
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(WithRegistry(reg))
	defer func() {
		if recover() == nil {
			t.Error("second registration did not panic")
		}
	}()
	NewMetrics(WithRegistry(reg))
}

func TestTracingObserver(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tr := NewTracing(WithTracerProvider(tp))

	rt, err := ive.New(ive.WithObserver(tr))
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	count, b := counter(t, rt)
	rt.Mount(b.Render(nil))
	stale := b.Render(nil)
	rt.Mount(stale)
	stale.Remove()
	count.Set(1)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "ive.notify" {
		t.Errorf("span name = %q", s.Name())
	}
	attrs := map[string]int64{}
	for _, kv := range s.Attributes() {
		if kv.Value.Type() == attribute.INT64 {
			attrs[string(kv.Key)] = kv.Value.AsInt64()
		}
	}
	if attrs["ive.subscribers"] != 1 || attrs["ive.replaced"] != 1 {
		t.Errorf("attributes = %v", attrs)
	}
}

func TestTracingRouteSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tr := NewTracing(WithTracerProvider(tp), WithTracerName("test"))

	tr.RouteResolved("no_mount", "")
	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != "ive.route" {
		t.Fatalf("spans = %v", spans)
	}
}

func TestMultiObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	rec := tracetest.NewSpanRecorder()
	tr := NewTracing(WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))))

	rt, err := ive.New(ive.WithObserver(m), ive.WithObserver(tr), ive.WithLocation("/a"))
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	router.New(rt, "/b", nil)
	if got := testutil.ToFloat64(m.routes.WithLabelValues("no_mount")); got != 1 {
		t.Errorf("no_mount = %v", got)
	}
	if len(rec.Ended()) != 1 {
		t.Errorf("route spans = %d, want 1", len(rec.Ended()))
	}
}
