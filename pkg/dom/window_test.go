package dom

import "testing"

func TestHistoryPushReplace(t *testing.T) {
	w, err := NewWindow("/app/")
	if err != nil {
		t.Fatal(err)
	}

	popstates := 0
	w.AddEventListener(EventPopState, func(*Event) { popstates++ })

	if err := w.History().PushState(HistoryState{Href: "users/1"}, "users/1"); err != nil {
		t.Fatal(err)
	}
	if w.Pathname() != "/app/users/1" {
		t.Errorf("Pathname() = %q, want relative resolution", w.Pathname())
	}
	if err := w.History().ReplaceState(HistoryState{Href: "/b"}, "/b"); err != nil {
		t.Fatal(err)
	}
	if w.History().Len() != 2 || w.Pathname() != "/b" {
		t.Errorf("Len() = %d, Pathname() = %q", w.History().Len(), w.Pathname())
	}
	if popstates != 0 {
		t.Error("push/replace must not fire popstate")
	}
	if st, ok := w.History().State().(HistoryState); !ok || st.Href != "/b" {
		t.Errorf("State() = %#v", w.History().State())
	}
}

func TestHistoryTraversalSchedulesPopState(t *testing.T) {
	var queued []func()
	w, err := NewWindow("/", WithScheduler(func(fn func()) { queued = append(queued, fn) }))
	if err != nil {
		t.Fatal(err)
	}
	_ = w.History().PushState(HistoryState{Href: "/a"}, "/a")
	_ = w.History().PushState(HistoryState{Href: "/b"}, "/b")

	var states []any
	w.AddEventListener(EventPopState, func(e *Event) { states = append(states, e.State) })

	if !w.History().Back() {
		t.Fatal("Back() = false")
	}
	if w.Pathname() != "/a" {
		t.Errorf("Pathname() = %q", w.Pathname())
	}
	if len(states) != 0 {
		t.Fatal("popstate fired synchronously")
	}
	for _, fn := range queued {
		fn()
	}
	if len(states) != 1 || states[0].(HistoryState).Href != "/a" {
		t.Errorf("states = %v", states)
	}

	if w.History().Go(5) || w.History().Go(0) {
		t.Error("out of range Go should fail")
	}

	// Pushing after going back drops forward entries.
	_ = w.History().PushState(nil, "/c")
	if w.History().Len() != 3 || w.History().Forward() {
		t.Errorf("Len() = %d", w.History().Len())
	}
}

func TestNewWindowInvalid(t *testing.T) {
	if _, err := NewWindow("http://[::1"); err == nil {
		t.Error("expected error for invalid url")
	}
}
