package dom

import (
	"fmt"
	"net/url"
)

// EventPopState is the window event fired on history traversal.
const EventPopState = "popstate"

// HistoryState is the payload stored with history entries created by
// programmatic navigation.
type HistoryState struct {
	Href string `json:"href"`
}

// HistoryEntry is one entry of the session history.
type HistoryEntry struct {
	URL   *url.URL
	State any
}

// Window holds a document, its location and its session history.
type Window struct {
	doc       *Document
	history   *History
	listeners listenerSet
	schedule  func(func())
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithScheduler sets how asynchronous window work (history traversal events)
// is queued. The default runs it immediately.
func WithScheduler(schedule func(func())) WindowOption {
	return func(w *Window) {
		w.schedule = schedule
	}
}

// WithDocument uses an existing document instead of a fresh one.
func WithDocument(doc *Document) WindowOption {
	return func(w *Window) {
		w.doc = doc
	}
}

// NewWindow creates a window whose initial location is href.
func NewWindow(href string, opts ...WindowOption) (*Window, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("dom: invalid initial location %q: %w", href, err)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	w := &Window{
		schedule: func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.doc == nil {
		w.doc = NewDocument()
	}
	w.history = &History{
		win:     w,
		entries: []HistoryEntry{{URL: u}},
	}
	return w, nil
}

// SetScheduler replaces the scheduler used for asynchronous window work.
func (w *Window) SetScheduler(schedule func(func())) {
	if schedule == nil {
		schedule = func(fn func()) { fn() }
	}
	w.schedule = schedule
}

// Document returns the window's document.
func (w *Window) Document() *Document { return w.doc }

// History returns the session history.
func (w *Window) History() *History { return w.history }

// Location returns a copy of the current URL.
func (w *Window) Location() *url.URL {
	u := *w.history.current().URL
	return &u
}

// Pathname returns the path of the current location.
func (w *Window) Pathname() string {
	return w.history.current().URL.Path
}

// Href returns the current location as a string.
func (w *Window) Href() string {
	return w.history.current().URL.String()
}

// AddEventListener registers a window listener and returns its remover.
func (w *Window) AddEventListener(typ string, fn Listener) func() {
	return w.listeners.add(typ, fn)
}

// ListenerCount returns the number of window listeners for typ.
func (w *Window) ListenerCount(typ string) int {
	return w.listeners.count(typ)
}

// DispatchEvent synchronously runs the window listeners for ev.Type.
// It returns false if a listener called PreventDefault.
func (w *Window) DispatchEvent(ev *Event) bool {
	for _, l := range w.listeners.snapshot(ev.Type) {
		l.fn(ev)
	}
	return !ev.prevented
}

// History is a session history stack.
type History struct {
	win     *Window
	entries []HistoryEntry
	index   int
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Index returns the position of the current entry.
func (h *History) Index() int { return h.index }

// State returns the state of the current entry.
func (h *History) State() any { return h.current().State }

// Entries returns a copy of all entries.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) current() HistoryEntry {
	return h.entries[h.index]
}

// PushState adds an entry after the current one, dropping forward entries.
// href is resolved against the current location. No event is fired.
func (h *History) PushState(state any, href string) error {
	u, err := h.resolve(href)
	if err != nil {
		return err
	}
	h.entries = append(h.entries[:h.index+1], HistoryEntry{URL: u, State: state})
	h.index = len(h.entries) - 1
	return nil
}

// ReplaceState overwrites the current entry. No event is fired.
func (h *History) ReplaceState(state any, href string) error {
	u, err := h.resolve(href)
	if err != nil {
		return err
	}
	h.entries[h.index] = HistoryEntry{URL: u, State: state}
	return nil
}

// Go moves delta entries through history and schedules a popstate event.
// It reports whether the move was possible.
func (h *History) Go(delta int) bool {
	target := h.index + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		return false
	}
	h.index = target
	state := h.entries[target].State
	h.win.schedule(func() {
		h.win.DispatchEvent(&Event{Type: EventPopState, State: state})
	})
	return true
}

// Back is Go(-1).
func (h *History) Back() bool { return h.Go(-1) }

// Forward is Go(1).
func (h *History) Forward() bool { return h.Go(1) }

func (h *History) resolve(href string) (*url.URL, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("dom: invalid history url %q: %w", href, err)
	}
	return h.current().URL.ResolveReference(ref), nil
}
