package ive

import "github.com/ive-dev/ive/pkg/dom"

// Observer receives engine events for metrics, tracing and live preview.
// Methods are called on the loop goroutine and must not mutate cells.
type Observer interface {
	// CellMutated is called when a Set changes a cell, before dispatch.
	// The returned function is called once every subscriber was handled.
	CellMutated(cellID string, subscribers int) (done func())

	// UpdateDispatched is called once per dispatcher invocation. stale is
	// true when the node was no longer mounted and nothing happened.
	UpdateDispatched(entry EntryID, stale bool)

	// NodeReplaced is called after replacement took old's place.
	NodeReplaced(old, replacement *dom.Node)

	// RegistryChanged is called with the new entry count.
	RegistryChanged(size int)
}

// RouteObserver is implemented by observers interested in route resolution.
type RouteObserver interface {
	RouteResolved(outcome, pattern string)
}

// NopObserver ignores every event. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) CellMutated(string, int) func() { return func() {} }

func (NopObserver) UpdateDispatched(EntryID, bool) {}

func (NopObserver) NodeReplaced(*dom.Node, *dom.Node) {}

func (NopObserver) RegistryChanged(int) {}

func (NopObserver) RouteResolved(string, string) {}

// MultiObserver fans events out to several observers in order.
func MultiObserver(observers ...Observer) Observer {
	var flat multiObserver
	for _, o := range observers {
		switch v := o.(type) {
		case nil:
		case multiObserver:
			flat = append(flat, v...)
		default:
			flat = append(flat, v)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return flat
}

type multiObserver []Observer

func (m multiObserver) CellMutated(cellID string, subscribers int) func() {
	dones := make([]func(), 0, len(m))
	for _, o := range m {
		dones = append(dones, o.CellMutated(cellID, subscribers))
	}
	return func() {
		for i := len(dones) - 1; i >= 0; i-- {
			if dones[i] != nil {
				dones[i]()
			}
		}
	}
}

func (m multiObserver) UpdateDispatched(entry EntryID, stale bool) {
	for _, o := range m {
		o.UpdateDispatched(entry, stale)
	}
}

func (m multiObserver) NodeReplaced(old, replacement *dom.Node) {
	for _, o := range m {
		o.NodeReplaced(old, replacement)
	}
}

func (m multiObserver) RegistryChanged(size int) {
	for _, o := range m {
		o.RegistryChanged(size)
	}
}

func (m multiObserver) RouteResolved(outcome, pattern string) {
	for _, o := range m {
		if ro, ok := o.(RouteObserver); ok {
			ro.RouteResolved(outcome, pattern)
		}
	}
}
