package router

import (
	"log/slog"

	"github.com/ive-dev/ive/pkg/dom"
)

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Logger receives navigation failures from Link. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// NavigateOption is a functional option for RouteTo.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// LogErrors sets the logger Link reports failed navigations to.
func LogErrors(l *slog.Logger) NavigateOption {
	return func(o *NavigateOptions) {
		o.Logger = l
	}
}

// RouteTo navigates without a document load. It records href in history
// and dispatches a popstate event carrying the same state, so every router
// listening on win resolves the new location before RouteTo returns.
func RouteTo(win *dom.Window, href string, opts ...NavigateOption) error {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}

	state := dom.HistoryState{Href: href}
	var err error
	if o.Replace {
		err = win.History().ReplaceState(state, href)
	} else {
		err = win.History().PushState(state, href)
	}
	if err != nil {
		return err
	}

	ev := dom.NewEvent(dom.EventPopState)
	ev.Bubbles = false
	ev.State = state
	win.DispatchEvent(ev)
	return nil
}

// Back moves one entry back in history. Routers resolve in a later loop
// task, as with browser traversal. It reports whether there was an entry.
func Back(win *dom.Window) bool {
	return win.History().Back()
}

// Forward moves one entry forward in history.
func Forward(win *dom.Window) bool {
	return win.History().Forward()
}
