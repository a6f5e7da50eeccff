package ive

import (
	"testing"

	"github.com/google/uuid"
)

func TestRegistryGenerations(t *testing.T) {
	r := newRegistry()
	a := r.add(nil, nil)
	if a.id != (EntryID{Index: 0, Gen: 1}) {
		t.Fatalf("first id = %v", a.id)
	}
	if !r.remove(a.id) || r.remove(a.id) {
		t.Fatal("remove should succeed exactly once")
	}

	b := r.add(nil, nil)
	if b.id.Index != a.id.Index || b.id.Gen != 2 {
		t.Errorf("reused slot id = %v, want 0.2", b.id)
	}
	if r.Has(a.id) {
		t.Error("stale id resolved to the reused slot")
	}
	if !r.Has(b.id) || r.Len() != 1 {
		t.Errorf("Has=%v Len=%d", r.Has(b.id), r.Len())
	}
}

func TestParseEntryID(t *testing.T) {
	tests := []struct {
		in   string
		want EntryID
		ok   bool
	}{
		{"3.7", EntryID{3, 7}, true},
		{"0.1", EntryID{0, 1}, true},
		{"0.0", EntryID{}, false},
		{"3", EntryID{}, false},
		{"a.1", EntryID{}, false},
		{"", EntryID{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseEntryID(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseEntryID(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if s := (EntryID{4, 2}).String(); s != "4.2" {
		t.Errorf("String = %q", s)
	}
}

func TestCounterAllocator(t *testing.T) {
	a := NewCounterAllocator()
	if a.NextID() != "1" || a.NextID() != "2" {
		t.Error("counter ids are not sequential")
	}
}

func TestUUIDAllocator(t *testing.T) {
	rt := newTestRuntime(t, WithIDAllocator(UUIDAllocator{}))
	s := NewState(rt, 0)
	if _, err := uuid.Parse(s.ID()); err != nil {
		t.Errorf("cell id %q is not a UUID: %v", s.ID(), err)
	}
	if NewState(rt, 0).ID() == s.ID() {
		t.Error("duplicate uuid")
	}
}
