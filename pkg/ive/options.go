package ive

import (
	"log/slog"

	"github.com/ive-dev/ive/pkg/dom"
)

// DefaultMarkerPrefix is the attribute prefix reserved for the framework.
const DefaultMarkerPrefix = "ive-"

// MarkerPolicy decides how reactivity markers reach a replacement node.
type MarkerPolicy int

const (
	// MarkersRegenerate tags the replacement from its registry entry and
	// copies only the remaining reserved attributes from the old node.
	MarkersRegenerate MarkerPolicy = iota

	// MarkersCopy copies every reserved attribute of the old node verbatim,
	// markers included.
	MarkersCopy
)

// String returns the config name of the policy.
func (p MarkerPolicy) String() string {
	switch p {
	case MarkersRegenerate:
		return "regenerate"
	case MarkersCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// NotifyMode decides how a mutation finds its subscribers.
type NotifyMode int

const (
	// NotifyIndex uses the runtime's cell-to-node index.
	NotifyIndex NotifyMode = iota

	// NotifyScan walks the document body for marker attributes.
	NotifyScan
)

// String returns the config name of the mode.
func (m NotifyMode) String() string {
	switch m {
	case NotifyIndex:
		return "index"
	case NotifyScan:
		return "scan"
	default:
		return "unknown"
	}
}

// Option configures a Runtime.
type Option func(*runtimeConfig)

type runtimeConfig struct {
	window   *dom.Window
	location string
	loop     *Loop
	ids      IDAllocator
	prefix   string
	policy   MarkerPolicy
	notify   NotifyMode
	logger   *slog.Logger
	observer Observer
}

func defaultRuntimeConfig() runtimeConfig {
	return runtimeConfig{
		location: "/",
		prefix:   DefaultMarkerPrefix,
		policy:   MarkersRegenerate,
		notify:   NotifyIndex,
	}
}

// WithWindow renders into an existing window. Its scheduler is replaced by
// the runtime's loop.
func WithWindow(w *dom.Window) Option {
	return func(c *runtimeConfig) {
		c.window = w
	}
}

// WithLocation sets the initial location of a window created by New.
func WithLocation(href string) Option {
	return func(c *runtimeConfig) {
		c.location = href
	}
}

// WithLoop uses an existing loop.
func WithLoop(l *Loop) Option {
	return func(c *runtimeConfig) {
		c.loop = l
	}
}

// WithIDAllocator sets the cell identity allocator.
func WithIDAllocator(a IDAllocator) Option {
	return func(c *runtimeConfig) {
		c.ids = a
	}
}

// WithMarkerPrefix sets the reserved attribute prefix.
func WithMarkerPrefix(prefix string) Option {
	return func(c *runtimeConfig) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithMarkerPolicy sets how markers reach replacement nodes.
func WithMarkerPolicy(p MarkerPolicy) Option {
	return func(c *runtimeConfig) {
		c.policy = p
	}
}

// WithNotifyMode sets how subscribers are found.
func WithNotifyMode(m NotifyMode) Option {
	return func(c *runtimeConfig) {
		c.notify = m
	}
}

// WithLogger sets the runtime logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *runtimeConfig) {
		c.logger = l
	}
}

// WithObserver adds an observer. Repeated use combines observers.
func WithObserver(o Observer) Option {
	return func(c *runtimeConfig) {
		if c.observer == nil {
			c.observer = o
			return
		}
		c.observer = MultiObserver(c.observer, o)
	}
}
