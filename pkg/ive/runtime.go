package ive

import (
	"log/slog"
	"strings"

	"github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/dom"
)

// Runtime owns a window, its loop, the component registry and the reverse
// index from cells to mounted nodes. It is not safe for concurrent use; see
// the package documentation.
type Runtime struct {
	win      *dom.Window
	doc      *dom.Document
	loop     *Loop
	ids      IDAllocator
	registry *Registry

	prefix     string
	policy     MarkerPolicy
	notifyMode NotifyMode

	logger   *slog.Logger
	observer Observer

	// subs maps a cell id to its mounted subscriber nodes.
	subs map[string]map[*dom.Node]struct{}

	stopObserving func()
}

// instanceKey stores the *instance on tagged nodes.
type instanceKey struct{}

// instance is the per-node record of a tagged node.
type instance struct {
	entry   EntryID
	cellIDs []string
	props   Props
}

func instanceOf(n *dom.Node) *instance {
	inst, _ := n.Data(instanceKey{}).(*instance)
	return inst
}

// New creates a runtime. Without WithWindow a window is created at the
// WithLocation href (default "/").
func New(opts ...Option) (*Runtime, error) {
	cfg := defaultRuntimeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.loop == nil {
		cfg.loop = NewLoop()
	}
	if cfg.ids == nil {
		cfg.ids = NewCounterAllocator()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.observer == nil {
		cfg.observer = NopObserver{}
	}
	win := cfg.window
	if win == nil {
		w, err := dom.NewWindow(cfg.location)
		if err != nil {
			return nil, errors.New("E004").WithField("location", cfg.location).Wrap(err)
		}
		win = w
	}
	win.SetScheduler(cfg.loop.Post)

	rt := &Runtime{
		win:        win,
		doc:        win.Document(),
		loop:       cfg.loop,
		ids:        cfg.ids,
		registry:   newRegistry(),
		prefix:     cfg.prefix,
		policy:     cfg.policy,
		notifyMode: cfg.notify,
		logger:     cfg.logger.With("component", "ive"),
		observer:   cfg.observer,
		subs:       make(map[string]map[*dom.Node]struct{}),
	}
	rt.stopObserving = rt.doc.Observe(indexObserver{rt})
	return rt, nil
}

// Window returns the runtime's window.
func (rt *Runtime) Window() *dom.Window { return rt.win }

// Document returns the window's document.
func (rt *Runtime) Document() *dom.Document { return rt.doc }

// Loop returns the runtime's event loop.
func (rt *Runtime) Loop() *Loop { return rt.loop }

// Registry returns the component registry.
func (rt *Runtime) Registry() *Registry { return rt.registry }

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *slog.Logger { return rt.logger }

// Observer returns the configured observer.
func (rt *Runtime) Observer() Observer { return rt.observer }

// MarkerPrefix returns the reserved attribute prefix.
func (rt *Runtime) MarkerPrefix() string { return rt.prefix }

// MarkerPolicy returns the configured marker policy.
func (rt *Runtime) MarkerPolicy() MarkerPolicy { return rt.policy }

// NotifyMode returns the configured notify mode.
func (rt *Runtime) NotifyMode() NotifyMode { return rt.notifyMode }

// Mount appends n to the document body.
func (rt *Runtime) Mount(n *dom.Node) {
	rt.doc.Body().AppendChild(n)
}

// Close stops index maintenance. The runtime must not be used afterwards.
func (rt *Runtime) Close() {
	if rt.stopObserving != nil {
		rt.stopObserving()
		rt.stopObserving = nil
	}
}

// WatchAttr returns the marker attribute name for a cell id.
func (rt *Runtime) WatchAttr(cellID string) string {
	return rt.prefix + "watch-" + cellID
}

// ComponentAttr returns the marker attribute holding the entry id.
func (rt *Runtime) ComponentAttr() string {
	return rt.prefix + "component"
}

// Subscribers returns the mounted nodes watching cellID in document order.
func (rt *Runtime) Subscribers(cellID string) []*dom.Node {
	if rt.notifyMode == NotifyScan {
		return rt.doc.QueryAllByAttribute(rt.WatchAttr(cellID))
	}
	set := rt.subs[cellID]
	nodes := make([]*dom.Node, 0, len(set))
	for n := range set {
		nodes = append(nodes, n)
	}
	rt.doc.SortDocumentOrder(nodes)
	return nodes
}

// notify dispatches an update to every subscriber of cellID. The list is
// taken before the first dispatch; nodes detached by an earlier replacement
// in the same pass are skipped by HandleUpdate.
func (rt *Runtime) notify(cellID string) {
	targets := rt.Subscribers(cellID)
	done := rt.observer.CellMutated(cellID, len(targets))
	rt.logger.Debug("cell mutated", "cell", cellID, "subscribers", len(targets))
	for _, n := range targets {
		rt.HandleUpdate(n)
	}
	if done != nil {
		done()
	}
}

func (rt *Runtime) isReserved(name string) bool {
	return strings.HasPrefix(name, rt.prefix)
}

func (rt *Runtime) isMarker(name string) bool {
	return name == rt.ComponentAttr() || strings.HasPrefix(name, rt.prefix+"watch-")
}

// indexObserver keeps the reverse index and entry mount sets in step with
// the document.
type indexObserver struct {
	rt *Runtime
}

func (o indexObserver) Attached(n *dom.Node) {
	rt := o.rt
	inst := instanceOf(n)
	if inst == nil || !rt.doc.Contains(n) {
		return
	}
	e, ok := rt.registry.lookup(inst.entry)
	if !ok {
		// The entry was disposed while the node was detached.
		rt.untag(n)
		return
	}
	e.mounted[n] = struct{}{}
	for _, id := range inst.cellIDs {
		set := rt.subs[id]
		if set == nil {
			set = make(map[*dom.Node]struct{})
			rt.subs[id] = set
		}
		set[n] = struct{}{}
	}
}

func (o indexObserver) Detached(n *dom.Node) {
	rt := o.rt
	inst := instanceOf(n)
	if inst == nil {
		return
	}
	rt.unindex(n, inst)
	if e, ok := rt.registry.lookup(inst.entry); ok {
		delete(e.mounted, n)
	}
}

func (rt *Runtime) unindex(n *dom.Node, inst *instance) {
	for _, id := range inst.cellIDs {
		set := rt.subs[id]
		delete(set, n)
		if len(set) == 0 {
			delete(rt.subs, id)
		}
	}
}

// untag strips markers and the instance record so n is inert.
func (rt *Runtime) untag(n *dom.Node) {
	for _, name := range n.AttributeNames() {
		if rt.isMarker(name) {
			n.RemoveAttribute(name)
		}
	}
	n.SetData(instanceKey{}, nil)
}
