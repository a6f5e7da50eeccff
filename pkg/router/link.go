package router

import (
	"log/slog"

	"github.com/ive-dev/ive/pkg/dom"
	"github.com/ive-dev/ive/pkg/el"
)

// Link creates an anchor whose click navigates with RouteTo instead of
// loading a document. The href attribute stays real so the snapshot HTML
// works without the runtime. A failed navigation is logged (see LogErrors)
// and left in the click event's Detail.
func Link(win *dom.Window, href string, children any, opts ...NavigateOption) *dom.Node {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return el.H("a", el.Props{
		"href":      href,
		"data-link": "true",
		"on:click": func(ev *dom.Event) {
			ev.PreventDefault()
			if err := RouteTo(win, href, opts...); err != nil {
				logger.Warn("link navigation failed", "component", "router", "href", href, "error", err)
				ev.Detail = err
			}
		},
	}, children)
}
