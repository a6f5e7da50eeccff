package ive

// Cell is the type-erased view of a State used in watch lists.
type Cell interface {
	// ID returns the cell identity, unique within its runtime.
	ID() string

	// Value returns the current value.
	Value() any
}

// State is a mutable value cell with identity and subscriber notification.
type State[T any] struct {
	rt    *Runtime
	id    string
	value T

	// equal overrides shallow equality when set.
	equal func(T, T) bool
}

// NewState creates a cell holding initial with a fresh identity from the
// runtime's allocator.
func NewState[T any](rt *Runtime, initial T) *State[T] {
	return &State[T]{
		rt:    rt,
		id:    rt.ids.NextID(),
		value: initial,
	}
}

// ID returns the cell identity.
func (s *State[T]) ID() string { return s.id }

// Get returns the current value.
func (s *State[T]) Get() T { return s.value }

// Value implements Cell.
func (s *State[T]) Value() any { return s.value }

// Set stores v and re-renders every mounted node watching the cell, in
// document order. It does nothing when v is the same value as the current
// one (see shallowEqual). All dependent nodes are replaced before Set
// returns.
func (s *State[T]) Set(v T) {
	if s.equals(s.value, v) {
		return
	}
	s.value = v
	s.rt.notify(s.id)
}

// Update sets the cell to fn applied to the current value.
func (s *State[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// WithEquals configures a custom equality function used instead of the
// shallow comparison.
func (s *State[T]) WithEquals(fn func(T, T) bool) *State[T] {
	s.equal = fn
	return s
}

func (s *State[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return shallowEqual(a, b)
}
