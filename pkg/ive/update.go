package ive

import (
	"github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/dom"
)

// HandleUpdate re-renders a tagged node and swaps the result into the
// node's position.
//
// A node that is no longer under the document body is ignored. A node whose
// component marker does not name a live registry entry is a programming
// error and panics with E001.
func (rt *Runtime) HandleUpdate(n *dom.Node) {
	if !rt.doc.Contains(n) {
		rt.observer.UpdateDispatched(EntryID{}, true)
		rt.logger.Debug("stale update dropped")
		return
	}

	raw, _ := n.Attribute(rt.ComponentAttr())
	id, _ := ParseEntryID(raw)
	e, ok := rt.registry.lookup(id)
	if !ok {
		panic(errors.New("E001").WithField("component", raw))
	}

	var props Props
	if inst := instanceOf(n); inst != nil {
		props = inst.props
	}
	replacement := rt.render(e, props)

	switch rt.policy {
	case MarkersCopy:
		for _, a := range n.Attrs() {
			if rt.isReserved(a.Name) {
				replacement.SetAttribute(a.Name, a.Value)
			}
		}
		ids := make([]string, len(e.cells))
		for i, c := range e.cells {
			ids[i] = c.ID()
		}
		replacement.SetData(instanceKey{}, &instance{entry: e.id, cellIDs: ids, props: props})
	default:
		rt.tag(replacement, e, props)
		for _, a := range n.Attrs() {
			if rt.isReserved(a.Name) && !rt.isMarker(a.Name) {
				replacement.SetAttribute(a.Name, a.Value)
			}
		}
	}

	if replacement == n {
		// The render function returned the mounted node itself.
		rt.observer.UpdateDispatched(e.id, false)
		return
	}
	n.ReplaceWith(replacement)
	n.SetData(instanceKey{}, nil)

	rt.observer.UpdateDispatched(e.id, false)
	rt.observer.NodeReplaced(n, replacement)
}
