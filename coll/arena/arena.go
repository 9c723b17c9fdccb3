// Package arena provides typed slot arenas addressed by integer indices.
//
// Tree and hash-table nodes live in an Arena rather than behind raw
// pointers: links between nodes are uint32 indices into the arena, index 0
// is reserved as the nil link, and every slot carries a generation counter
// bumped on free. Dangling references therefore cannot be dereferenced as a
// stale node without detection, and a node graph can be inspected or dumped
// by walking plain integers.
//
// Freed slots form an index-linked LIFO stack threaded through the slots
// themselves. When the stack is empty the arena carves a fresh batch of
// slots: 40 at first, growing with the arena's cumulative size so the number
// of growth steps stays logarithmic, mirroring the pool allocator's chunk
// policy.
//
// Arenas are not safe for concurrent use.
package arena

import (
	"errors"
	"math"
)

var (
	// ErrOutOfMemory indicates the arena's configured slot limit is
	// exhausted.
	ErrOutOfMemory = errors.New("arena: out of slots")

	// ErrBadIndex indicates an index that is zero, out of range, or does
	// not refer to a live slot.
	ErrBadIndex = errors.New("arena: bad slot index")

	// ErrDoubleFree indicates a Free of a slot that is already free.
	ErrDoubleFree = errors.New("arena: slot already free")
)

// batchSlots is the base batch size for slab growth.
const batchSlots = 20

// Config holds construction options for an Arena.
type Config struct {
	// MaxSlots caps the total number of slots the arena will ever create.
	// Zero means unlimited. Used by tests to exercise allocation-failure
	// paths.
	MaxSlots int
}

// Stats holds internal arena counters.
type Stats struct {
	Batches    int // Number of slab growth steps
	TotalSlots int // Slots ever created (excluding the reserved slot 0)
	LiveSlots  int // Slots currently allocated
	FreeSlots  int // Slots on the free stack
}

type slot[T any] struct {
	value T
	next  uint32 // free-stack link while free
	gen   uint32 // bumped on every free
	live  bool
}

// Arena is a growable pool of T-typed slots addressed by uint32 indices.
// Index 0 is never handed out and serves as the nil link.
type Arena[T any] struct {
	slots    []slot[T]
	freeHead uint32
	freeLen  int
	live     int
	maxSlots int
	batches  int
}

// New creates an Arena. A nil config means no slot limit.
func New[T any](cfg *Config) *Arena[T] {
	a := &Arena[T]{}
	if cfg != nil {
		a.maxSlots = cfg.MaxSlots
	}
	return a
}

// Alloc returns the index of a zeroed live slot.
func (a *Arena[T]) Alloc() (uint32, error) {
	if a.freeHead != 0 {
		idx := a.freeHead
		s := &a.slots[idx]
		a.freeHead = s.next
		a.freeLen--
		s.next = 0
		s.live = true
		var zero T
		s.value = zero
		a.live++
		return idx, nil
	}
	return a.grow()
}

// grow carves a fresh slab, hands the first new slot to the caller and
// threads the rest onto the free stack.
func (a *Arena[T]) grow() (uint32, error) {
	if len(a.slots) == 0 {
		// Slot 0 is the reserved nil link.
		a.slots = append(a.slots, slot[T]{})
	}

	total := len(a.slots) - 1
	batch := 2*batchSlots + total/16
	if a.maxSlots > 0 {
		remaining := a.maxSlots - total
		if remaining <= 0 {
			return 0, ErrOutOfMemory
		}
		if batch > remaining {
			batch = remaining
		}
	}
	if len(a.slots)+batch > math.MaxUint32 {
		return 0, ErrOutOfMemory
	}

	start := len(a.slots)
	a.slots = append(a.slots, make([]slot[T], batch)...)
	a.batches++

	// Thread slots start+1..start+batch-1 so the lowest index pops first.
	for i := start + batch - 1; i > start; i-- {
		a.slots[i].next = a.freeHead
		a.freeHead = uint32(i)
		a.freeLen++
	}

	a.slots[start].live = true
	a.live++
	return uint32(start), nil
}

// Free releases a slot back to the arena. The slot's value is zeroed so the
// arena drops any references it held, and its generation is bumped.
func (a *Arena[T]) Free(idx uint32) error {
	if idx == 0 || int(idx) >= len(a.slots) {
		return ErrBadIndex
	}
	s := &a.slots[idx]
	if !s.live {
		return ErrDoubleFree
	}
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	s.next = a.freeHead
	a.freeHead = idx
	a.freeLen++
	a.live--
	return nil
}

// At returns a pointer to the slot's value. The pointer is valid until the
// next Alloc, which may relocate the arena's backing storage. Callers index
// only slots they allocated; out-of-range or dead indices are programming
// errors and panic.
func (a *Arena[T]) At(idx uint32) *T {
	s := &a.slots[idx]
	if !s.live {
		panic("arena: access to dead slot")
	}
	return &s.value
}

// Live reports whether idx refers to a live slot.
func (a *Arena[T]) Live(idx uint32) bool {
	return idx != 0 && int(idx) < len(a.slots) && a.slots[idx].live
}

// Gen returns the generation counter of a slot, live or dead. It returns 0
// for out-of-range indices.
func (a *Arena[T]) Gen(idx uint32) uint32 {
	if int(idx) >= len(a.slots) {
		return 0
	}
	return a.slots[idx].gen
}

// LiveGen reports whether the slot is live and still on the generation the
// caller captured. A freed-and-reused slot carries a later generation, so
// references taken before the free fail this check.
func (a *Arena[T]) LiveGen(idx, gen uint32) bool {
	return a.Live(idx) && a.slots[idx].gen == gen
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int {
	return a.live
}

// Reset releases every slot and the backing slabs. Outstanding indices
// become invalid.
func (a *Arena[T]) Reset() {
	a.slots = nil
	a.freeHead = 0
	a.freeLen = 0
	a.live = 0
	a.batches = 0
}

// Stats returns a copy of the arena's internal counters.
func (a *Arena[T]) Stats() Stats {
	total := 0
	if len(a.slots) > 0 {
		total = len(a.slots) - 1
	}
	return Stats{
		Batches:    a.batches,
		TotalSlots: total,
		LiveSlots:  a.live,
		FreeSlots:  a.freeLen,
	}
}
