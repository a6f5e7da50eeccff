package ive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ive-dev/ive/pkg/dom"
)

// EntryID identifies a registry entry. Index is a slot in the registry
// table and Gen counts how often the slot was reused, so an id kept after
// its entry was disposed never resolves to a later entry.
type EntryID struct {
	Index uint32
	Gen   uint32
}

// String renders the id as "<index>.<gen>", the form stored in the
// component marker attribute.
func (id EntryID) String() string {
	return fmt.Sprintf("%d.%d", id.Index, id.Gen)
}

// IsZero reports whether id is the zero value. Zero never names an entry.
func (id EntryID) IsZero() bool {
	return id.Gen == 0
}

// ParseEntryID parses the String form.
func ParseEntryID(s string) (EntryID, bool) {
	idx, gen, ok := strings.Cut(s, ".")
	if !ok {
		return EntryID{}, false
	}
	i, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return EntryID{}, false
	}
	g, err := strconv.ParseUint(gen, 10, 32)
	if err != nil || g == 0 {
		return EntryID{}, false
	}
	return EntryID{Index: uint32(i), Gen: uint32(g)}, true
}

// RenderFunc renders a component from the current values of its watched
// cells, in watch order, and the props given at mount time.
type RenderFunc func(values []any, props Props) *dom.Node

// entry is the stored pairing of a render function and its cells.
type entry struct {
	id     EntryID
	cells  []Cell
	render RenderFunc

	// mounted holds the entry's nodes currently under the document body.
	mounted map[*dom.Node]struct{}
}

type slot struct {
	gen   uint32
	entry *entry
}

// Registry is a generational table of component entries owned by a Runtime.
type Registry struct {
	slots []slot
	free  []uint32
	size  int
}

func newRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) add(cells []Cell, render RenderFunc) *entry {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, slot{})
		idx = uint32(len(r.slots) - 1)
	}
	s := &r.slots[idx]
	s.gen++
	e := &entry{
		id:      EntryID{Index: idx, Gen: s.gen},
		cells:   cells,
		render:  render,
		mounted: make(map[*dom.Node]struct{}),
	}
	s.entry = e
	r.size++
	return e
}

func (r *Registry) lookup(id EntryID) (*entry, bool) {
	if id.IsZero() || int(id.Index) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[id.Index]
	if s.gen != id.Gen || s.entry == nil {
		return nil, false
	}
	return s.entry, true
}

func (r *Registry) remove(id EntryID) bool {
	if _, ok := r.lookup(id); !ok {
		return false
	}
	r.slots[id.Index].entry = nil
	r.free = append(r.free, id.Index)
	r.size--
	return true
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return r.size
}

// Has reports whether id names a live entry.
func (r *Registry) Has(id EntryID) bool {
	_, ok := r.lookup(id)
	return ok
}

// Mounted returns how many nodes of entry id are under the document body.
func (r *Registry) Mounted(id EntryID) int {
	e, ok := r.lookup(id)
	if !ok {
		return 0
	}
	return len(e.mounted)
}
