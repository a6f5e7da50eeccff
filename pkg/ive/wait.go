package ive

import (
	"github.com/ive-dev/ive/pkg/dom"
)

// Status is the phase of an awaited future.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusError
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// WaitState is the value of the cell backing Wait. A new pointer is stored
// on every transition so the change is never mistaken for a no-op.
type WaitState[T any] struct {
	Status Status
	Value  T
	Err    error
}

// WaitOption configures Wait.
type WaitOption func(*waitConfig)

type waitConfig struct {
	loading func(Props) *dom.Node
	failed  func(error, Props) *dom.Node
}

// WithLoading sets the view shown while the future is pending.
func WithLoading(fn func(Props) *dom.Node) WaitOption {
	return func(c *waitConfig) {
		c.loading = fn
	}
}

// WithError sets the view shown when the future is rejected.
func WithError(fn func(error, Props) *dom.Node) WaitOption {
	return func(c *waitConfig) {
		c.failed = fn
	}
}

// Wait binds a component to the outcome of fut. The returned binding shows
// the loading view (or an empty div) while pending, ready's output once the
// future resolves and the error view (or an empty div) if it is rejected.
//
// The transition happens in a loop task after settlement, never during the
// Wait call itself, even for an already settled future.
func Wait[T any](rt *Runtime, fut *Future[T], ready func(T, Props) *dom.Node, opts ...WaitOption) *Binding {
	var cfg waitConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	cell := NewState(rt, &WaitState[T]{Status: StatusPending})
	fut.Then(func(v T) {
		cell.Set(&WaitState[T]{Status: StatusReady, Value: v})
	}, func(err error) {
		rt.logger.Debug("awaited future rejected", "cell", cell.ID(), "error", err)
		cell.Set(&WaitState[T]{Status: StatusError, Err: err})
	})

	return Watch1(rt, cell, func(st *WaitState[T], props Props) *dom.Node {
		switch st.Status {
		case StatusReady:
			return ready(st.Value, props)
		case StatusError:
			if cfg.failed != nil {
				return cfg.failed(st.Err, props)
			}
		default:
			if cfg.loading != nil {
				return cfg.loading(props)
			}
		}
		return dom.NewElement("div")
	})
}
