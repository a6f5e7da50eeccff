package router

import (
	"log/slog"
	"strings"

	"github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/dom"
	"github.com/ive-dev/ive/pkg/ive"
)

// PageFunc renders a page from the matched parameters. Like every bound
// render function it must return an element.
type PageFunc func(Params) *dom.Node

// Module is a lazily loaded route module.
type Module struct {
	Default PageFunc
}

// Handler is what a route resolves to. Use Static, Func or Lazy.
type Handler struct {
	kind   handlerKind
	node   *dom.Node
	fn     PageFunc
	module *ive.Future[Module]
}

type handlerKind uint8

const (
	handlerStatic handlerKind = iota + 1
	handlerFunc
	handlerLazy
)

// Static serves a prebuilt node.
func Static(n *dom.Node) Handler {
	return Handler{kind: handlerStatic, node: n}
}

// Func serves a render function called with the route parameters.
func Func(fn PageFunc) Handler {
	return Handler{kind: handlerFunc, fn: fn}
}

// Lazy serves the Default of a module delivered by a future.
func Lazy(module *ive.Future[Module]) Handler {
	return Handler{kind: handlerLazy, module: module}
}

// Route pairs a path pattern such as "/users/{id}" with a handler.
type Route struct {
	Pattern string
	Handler Handler
}

// Outcome classifies a resolution.
type Outcome int

const (
	// Matched means a route matched and the page was set.
	Matched Outcome = iota + 1
	// Pending means a lazy route matched and its module is loading.
	Pending
	// NotFound means no route matched and the not-found page was set.
	NotFound
	// Unmatched means no route matched and there is no not-found page.
	Unmatched
	// NoMount means the location is outside the mount prefix.
	NoMount
)

// String returns the outcome name used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Pending:
		return "pending"
	case NotFound:
		return "not_found"
	case Unmatched:
		return "unmatched"
	case NoMount:
		return "no_mount"
	default:
		return "none"
	}
}

// Resolution describes the last LoadPage call.
type Resolution struct {
	Outcome Outcome
	// Path is the location path with the mount prefix removed. It is the
	// full location path for NoMount.
	Path    string
	Pattern string
	Params  Params
}

// page is the value of the router's page cell. Each resolution stores a
// new pointer.
type page struct {
	render PageFunc
	params Params
}

// Option configures a Router.
type Option func(*Router)

// WithNotFound sets the page rendered for unmatched paths. fn receives the
// path with the mount prefix removed.
func WithNotFound(fn func(path string) *dom.Node) Option {
	return func(r *Router) {
		r.notFound = fn
	}
}

// WithLogger sets the router logger. The default is the runtime's.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// Router resolves the window location against a route table and renders
// the result through a page cell.
type Router struct {
	rt       *ive.Runtime
	win      *dom.Window
	mount    string
	routes   []compiled
	notFound func(string) *dom.Node
	logger   *slog.Logger

	page    *ive.State[*page]
	binding *ive.Binding

	// gen counts resolutions; lazy modules only apply if it is unchanged.
	gen  uint64
	last Resolution

	removeListener func()
}

// New compiles routes, resolves the current location and starts listening
// for popstate. Patterns that do not compile never match. An empty mount
// is treated as "/".
func New(rt *ive.Runtime, mount string, routes []Route, opts ...Option) *Router {
	if mount == "" {
		mount = "/"
	}
	r := &Router{
		rt:    rt,
		win:   rt.Window(),
		mount: mount,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = rt.Logger()
	}
	r.logger = r.logger.With("component", "router", "mount", mount)

	r.routes = make([]compiled, 0, len(routes))
	for _, route := range routes {
		re, names, err := compilePattern(route.Pattern)
		if err != nil {
			r.logger.Debug("route pattern never matches", "pattern", route.Pattern, "error", err)
		}
		r.routes = append(r.routes, compiled{route: route, re: re, names: names})
	}

	r.page = ive.NewState[*page](rt, nil)
	r.binding = ive.Watch1(rt, r.page, func(p *page, _ ive.Props) *dom.Node {
		if p == nil || p.render == nil {
			return dom.NewElement("div")
		}
		return p.render(p.params)
	})
	r.removeListener = r.win.AddEventListener(dom.EventPopState, func(*dom.Event) {
		r.LoadPage()
	})
	r.LoadPage()
	return r
}

// Render returns a new mounted-ready node showing the current page.
func (r *Router) Render() *dom.Node {
	return r.binding.Render(nil)
}

// Binding returns the binding behind Render.
func (r *Router) Binding() *ive.Binding {
	return r.binding
}

// LastResolution returns the result of the most recent LoadPage.
func (r *Router) LastResolution() Resolution {
	return r.last
}

// Close stops listening for popstate and disposes the page binding.
func (r *Router) Close() {
	if r.removeListener != nil {
		r.removeListener()
		r.removeListener = nil
	}
	r.binding.Dispose()
}

// LoadPage resolves the current location. It runs on construction and on
// every popstate.
func (r *Router) LoadPage() Resolution {
	r.gen++
	loc := r.win.Pathname()

	rel, ok := r.strip(loc)
	if !ok {
		r.logger.Warn("location outside mount prefix",
			"path", loc,
			"error", errors.New("E302").WithField("path", loc))
		return r.record(Resolution{Outcome: NoMount, Path: loc})
	}

	for i := range r.routes {
		c := &r.routes[i]
		params, ok := c.match(rel)
		if !ok {
			continue
		}
		res := Resolution{Outcome: Matched, Path: rel, Pattern: c.route.Pattern, Params: params}
		h := c.route.Handler
		switch h.kind {
		case handlerStatic:
			node := h.node
			r.page.Set(&page{render: func(Params) *dom.Node { return node }, params: params})
		case handlerFunc:
			r.page.Set(&page{render: h.fn, params: params})
		case handlerLazy:
			res.Outcome = Pending
			r.loadModule(h.module, c.route.Pattern, params)
		default:
			r.logger.Debug("route has no handler", "pattern", c.route.Pattern)
			continue
		}
		return r.record(res)
	}

	if r.notFound != nil {
		notFound := r.notFound
		r.page.Set(&page{render: func(Params) *dom.Node { return notFound(rel) }})
		return r.record(Resolution{Outcome: NotFound, Path: rel})
	}
	return r.record(Resolution{Outcome: Unmatched, Path: rel})
}

// loadModule sets the page once module resolves, unless another resolution
// happened in the meantime.
func (r *Router) loadModule(module *ive.Future[Module], pattern string, params Params) {
	gen := r.gen
	module.Then(func(m Module) {
		if r.gen != gen {
			r.logger.Debug("lazy route superseded", "pattern", pattern)
			return
		}
		r.page.Set(&page{render: m.Default, params: params})
		r.observe(Matched, pattern)
	}, func(err error) {
		r.logger.Warn("lazy route failed",
			"pattern", pattern,
			"error", errors.New("E301").WithField("pattern", pattern).Wrap(err))
	})
}

// strip removes the mount prefix, keeping a leading slash.
func (r *Router) strip(path string) (string, bool) {
	if !strings.HasPrefix(path, r.mount) {
		return "", false
	}
	rel := path[len(r.mount):]
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return rel, true
}

func (r *Router) record(res Resolution) Resolution {
	r.last = res
	r.logger.Debug("route resolved", "outcome", res.Outcome.String(), "path", res.Path, "pattern", res.Pattern)
	r.observe(res.Outcome, res.Pattern)
	return res
}

func (r *Router) observe(outcome Outcome, pattern string) {
	if o, ok := r.rt.Observer().(ive.RouteObserver); ok {
		o.RouteResolved(outcome.String(), pattern)
	}
}
