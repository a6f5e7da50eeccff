package ive

import (
	"github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/dom"
)

// ErrDisposed matches the panic raised when a disposed binding renders.
var ErrDisposed = errors.New("E003")

// Props are the external properties passed to a bound component.
type Props map[string]any

// Binding is the factory returned by Watch. Every Render call produces an
// independent tagged node sharing the binding's registry entry.
type Binding struct {
	rt *Runtime
	id EntryID
}

// Watch registers render together with the cells it depends on and returns
// a factory for tagged nodes. The cell list and render function are stored
// as given; one registry entry is created per call.
func Watch(rt *Runtime, cells []Cell, render RenderFunc) *Binding {
	e := rt.registry.add(cells, render)
	rt.observer.RegistryChanged(rt.registry.Len())
	rt.logger.Debug("component registered", "entry", e.id.String(), "cells", len(cells))
	return &Binding{rt: rt, id: e.id}
}

// Watch1 binds a render function over a single typed cell.
func Watch1[A any](rt *Runtime, a *State[A], render func(A, Props) *dom.Node) *Binding {
	return Watch(rt, []Cell{a}, func(values []any, props Props) *dom.Node {
		return render(valueAs[A](values[0]), props)
	})
}

// Watch2 binds a render function over two typed cells.
func Watch2[A, B any](rt *Runtime, a *State[A], b *State[B], render func(A, B, Props) *dom.Node) *Binding {
	return Watch(rt, []Cell{a, b}, func(values []any, props Props) *dom.Node {
		return render(valueAs[A](values[0]), valueAs[B](values[1]), props)
	})
}

// valueAs converts a cell value back to its static type. A nil interface
// value becomes the zero T.
func valueAs[T any](v any) T {
	t, _ := v.(T)
	return t
}

// Memo returns fn unchanged. Components are already pure functions of their
// inputs; Memo exists so call sites can mark them as such.
func Memo[F any](fn F) F {
	return fn
}

// ID returns the registry entry id.
func (b *Binding) ID() EntryID { return b.id }

// Render invokes the render function with the cells' current values and
// props, tags the result and returns it. It panics with E003 after Dispose
// and with E002 when the render function returns nil or a non-element.
func (b *Binding) Render(props Props) *dom.Node {
	e, ok := b.rt.registry.lookup(b.id)
	if !ok {
		panic(errors.New("E003").WithField("component", b.id.String()))
	}
	n := b.rt.render(e, props)
	b.rt.tag(n, e, props)
	return n
}

// Func returns Render as a plain function value, for APIs that take
// components as func(Props) *dom.Node.
func (b *Binding) Func() func(Props) *dom.Node {
	return b.Render
}

// Instances returns the number of the binding's nodes currently mounted.
func (b *Binding) Instances() int {
	return b.rt.registry.Mounted(b.id)
}

// Dispose removes the binding's registry entry. Mounted nodes are untagged
// and stop updating. Dispose is idempotent.
func (b *Binding) Dispose() {
	rt := b.rt
	e, ok := rt.registry.lookup(b.id)
	if !ok {
		return
	}
	for n := range e.mounted {
		if inst := instanceOf(n); inst != nil {
			rt.unindex(n, inst)
		}
		rt.untag(n)
	}
	e.mounted = nil
	rt.registry.remove(b.id)
	rt.observer.RegistryChanged(rt.registry.Len())
	rt.logger.Debug("component disposed", "entry", b.id.String())
}

// render calls the entry's render function with fresh cell values. The
// result must be an element: markers live in attributes, and a fragment
// dissolves on insert.
func (rt *Runtime) render(e *entry, props Props) *dom.Node {
	values := make([]any, len(e.cells))
	for i, c := range e.cells {
		values[i] = c.Value()
	}
	n := e.render(values, props)
	if n == nil {
		panic(errors.New("E002").WithField("component", e.id.String()))
	}
	if n.Kind() != dom.KindElement {
		panic(errors.New("E002").
			WithField("component", e.id.String()).
			WithField("kind", n.Kind().String()))
	}
	return n
}

// tag writes the markers of e onto n and records the instance.
func (rt *Runtime) tag(n *dom.Node, e *entry, props Props) {
	ids := make([]string, len(e.cells))
	for i, c := range e.cells {
		ids[i] = c.ID()
		n.SetAttribute(rt.WatchAttr(c.ID()), "")
	}
	n.SetAttribute(rt.ComponentAttr(), e.id.String())
	n.SetData(instanceKey{}, &instance{entry: e.id, cellIDs: ids, props: props})
}
