package ive

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDAllocator hands out identities for cells. Identities are embedded in
// marker attribute names, so they must be valid attribute name characters.
type IDAllocator interface {
	NextID() string
}

// CounterAllocator issues monotonically increasing decimal ids.
// IDs are never reused.
type CounterAllocator struct {
	n atomic.Uint64
}

// NewCounterAllocator returns an allocator starting at 1.
func NewCounterAllocator() *CounterAllocator {
	return &CounterAllocator{}
}

// NextID implements IDAllocator.
func (c *CounterAllocator) NextID() string {
	return strconv.FormatUint(c.n.Add(1), 10)
}

// UUIDAllocator issues random UUIDs. Use it when ids from several runtimes
// end up in one document.
type UUIDAllocator struct{}

// NextID implements IDAllocator.
func (UUIDAllocator) NextID() string {
	return uuid.NewString()
}
