package dom

// Event is dispatched to node and window listeners.
type Event struct {
	// Type is the event name without the "on" prefix, e.g. "click".
	Type string

	// Bubbles makes node dispatch continue through the ancestors.
	Bubbles bool

	// State carries the history state for "popstate" events.
	State any

	// Detail carries arbitrary event data.
	Detail any

	target        *Node
	currentTarget *Node
	prevented     bool
	stopped       bool
}

// NewEvent creates a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// Target returns the node the event was dispatched to, or nil for window events.
func (e *Event) Target() *Node { return e.target }

// CurrentTarget returns the node whose listener is running.
func (e *Event) CurrentTarget() *Node { return e.currentTarget }

// PreventDefault marks the default action as cancelled.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// StopPropagation stops bubbling after the current node.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles an event.
type Listener func(*Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

// listenerSet holds listeners by event type. Removal is by id because
// functions are not comparable.
type listenerSet struct {
	byType map[string][]listenerEntry
	nextID uint64
}

func (s *listenerSet) add(typ string, fn Listener) func() {
	if s.byType == nil {
		s.byType = make(map[string][]listenerEntry)
	}
	s.nextID++
	id := s.nextID
	s.byType[typ] = append(s.byType[typ], listenerEntry{id: id, fn: fn})
	return func() {
		list := s.byType[typ]
		for i, e := range list {
			if e.id == id {
				s.byType[typ] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// snapshot copies listeners so handlers may add or remove listeners safely.
func (s *listenerSet) snapshot(typ string) []listenerEntry {
	if s == nil {
		return nil
	}
	list := s.byType[typ]
	out := make([]listenerEntry, len(list))
	copy(out, list)
	return out
}

func (s *listenerSet) count(typ string) int {
	if s == nil {
		return 0
	}
	return len(s.byType[typ])
}

// AddEventListener registers fn for events of type typ on n and returns a
// function that removes it.
func (n *Node) AddEventListener(typ string, fn Listener) func() {
	if n.listeners == nil {
		n.listeners = &listenerSet{}
	}
	return n.listeners.add(typ, fn)
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	return n.listeners.count(typ)
}

// DispatchEvent runs listeners on n and, for bubbling events, on each
// ancestor. It returns false if a listener called PreventDefault.
func (n *Node) DispatchEvent(ev *Event) bool {
	ev.target = n
	for cur := n; cur != nil; cur = cur.parent {
		ev.currentTarget = cur
		for _, l := range cur.listeners.snapshot(ev.Type) {
			l.fn(ev)
		}
		if ev.stopped || !ev.Bubbles {
			break
		}
	}
	ev.currentTarget = nil
	return !ev.prevented
}

// Click dispatches a bubbling "click" event on n.
func (n *Node) Click() bool {
	return n.DispatchEvent(NewEvent("click"))
}
