package pool

import (
	"fmt"
	"os"
)

// Runtime debug flag for allocation logging - controlled by COLL_LOG_ALLOC env var.
var logAlloc = os.Getenv("COLL_LOG_ALLOC") != ""

const (
	// align is the block granularity; every size class is a multiple of it.
	align = 8

	// MaxSmall is the largest request served from the pool. Anything above
	// goes straight to the raw allocator.
	MaxSmall = 128

	// numClasses is the number of segregated free lists (8, 16, ..., 128).
	numClasses = MaxSmall / align

	// batchBlocks is the target number of blocks carved per refill. The
	// pool may deliver fewer when it is nearly empty.
	batchBlocks = 20
)

// Config holds construction options for an Allocator.
type Config struct {
	// Raw supplies fresh memory for pool expansion and large requests.
	// Nil selects the Go heap.
	Raw RawAllocator
}

// Stats holds internal allocator counters, used by tests and the bench
// driver in place of mocks.
type Stats struct {
	AllocCalls int    // Total Allocate() calls
	FreeCalls  int    // Total Deallocate() calls
	RawCalls   int    // Successful raw allocator calls (pool growth and large requests)
	RawBytes   uint64 // Total bytes obtained from the raw allocator
	Refills    int    // Free-list refills from the pool
	Scavenges  int    // Blocks reclaimed from larger free lists after raw failure
	PoolSpills int    // Pool remainders pushed into a free list before expansion
}

// Allocator is a two-level pooled allocator. The zero value is not usable;
// construct with New.
type Allocator struct {
	raw RawAllocator

	// freeLists[i] holds blocks of exactly 8*(i+1) bytes, LIFO.
	freeLists [numClasses][][]byte

	// pool is the contiguous region not yet carved into blocks.
	pool []byte

	// totalHeapBytes counts bytes ever requested from the raw allocator
	// for pool expansion; it sizes future expansions and never decreases.
	totalHeapBytes uint64

	// oomHandler, when set, is retried in a loop before a raw failure
	// becomes ErrOutOfMemory. Returning false gives up.
	oomHandler func() bool

	// Test hook: called with the request size after every successful raw
	// allocation (nil in production).
	onRawAlloc func(int)

	stats Stats
}

// New creates an Allocator. A nil config selects the default raw allocator
// (the Go heap).
func New(cfg *Config) *Allocator {
	a := &Allocator{raw: heapRaw{}}
	if cfg != nil && cfg.Raw != nil {
		a.raw = cfg.Raw
	}
	return a
}

// roundUp rounds n up to the block granularity.
func roundUp(n int) int {
	return (n + align - 1) &^ (align - 1)
}

// classIndex maps a small request size to its free-list index.
func classIndex(n int) int {
	return (n+align-1)/align - 1
}

// Allocate returns a block of at least n bytes. For n <= MaxSmall the block
// is exactly roundUp(n) bytes and comes from the pool; larger requests go to
// the raw allocator. The block's contents are unspecified.
func (a *Allocator) Allocate(n int) ([]byte, error) {
	a.stats.AllocCalls++

	if n <= 0 {
		return nil, ErrBadSize
	}
	if n > MaxSmall {
		return a.rawAlloc(n)
	}

	idx := classIndex(n)
	if list := a.freeLists[idx]; len(list) > 0 {
		b := list[len(list)-1]
		a.freeLists[idx] = list[:len(list)-1]
		return b, nil
	}
	return a.refill(roundUp(n))
}

// Deallocate returns a block to the allocator. n must be the exact size
// passed to Allocate; the allocator stores no per-block sizes. Blocks above
// MaxSmall are dropped for the runtime to reclaim.
func (a *Allocator) Deallocate(buf []byte, n int) error {
	a.stats.FreeCalls++

	if n <= 0 {
		return ErrBadSize
	}
	if n > MaxSmall {
		return nil
	}

	size := roundUp(n)
	if cap(buf) < size {
		return ErrBadBlock
	}
	idx := size/align - 1
	a.freeLists[idx] = append(a.freeLists[idx], buf[:size:size])
	return nil
}

// refill replenishes the free list for the given rounded size and returns
// one block to the caller. The remaining blocks of the carved chunk are
// threaded into the list.
func (a *Allocator) refill(size int) ([]byte, error) {
	chunk, count, err := a.chunkAlloc(size, batchBlocks)
	if err != nil {
		return nil, err
	}
	a.stats.Refills++

	idx := size/align - 1
	for i := 1; i < count; i++ {
		a.freeLists[idx] = append(a.freeLists[idx], chunk[i*size:(i+1)*size:(i+1)*size])
	}
	return chunk[:size:size], nil
}

// chunkAlloc carves up to nblocks blocks of the given size from the pool,
// expanding it from the raw allocator when needed. It returns the carved
// chunk and the number of blocks it actually holds (>= 1 on success).
func (a *Allocator) chunkAlloc(size, nblocks int) ([]byte, int, error) {
	total := size * nblocks

	switch {
	case len(a.pool) >= total:
		// Full batch from the pool.
		chunk := a.pool[:total]
		a.pool = a.pool[total:]
		return chunk, nblocks, nil

	case len(a.pool) >= size:
		// Partial batch: at least one block fits.
		n := len(a.pool) / size
		chunk := a.pool[:n*size]
		a.pool = a.pool[n*size:]
		return chunk, n, nil
	}

	// Not even one block left. The remainder is always a multiple of 8, so
	// it fits exactly into some smaller class; spill it there before
	// expanding so no byte is stranded.
	if rem := len(a.pool); rem > 0 {
		idx := rem/align - 1
		a.freeLists[idx] = append(a.freeLists[idx], a.pool[:rem:rem])
		a.stats.PoolSpills++
		a.pool = nil
	}

	want := 2*total + roundUp(int(a.totalHeapBytes>>4))

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[POOL] expand: need=%d blocks of %d, requesting %d raw bytes (heap total %d)\n",
			nblocks, size, want, a.totalHeapBytes)
	}

	mem, err := a.rawAlloc(want)
	if err != nil {
		// Raw allocator exhausted: scavenge a block from this class or any
		// larger one, make it the new pool, and retry the carve.
		for idx := size/align - 1; idx < numClasses; idx++ {
			if list := a.freeLists[idx]; len(list) > 0 {
				b := list[len(list)-1]
				a.freeLists[idx] = list[:len(list)-1]
				a.stats.Scavenges++
				a.pool = b

				if logAlloc {
					fmt.Fprintf(os.Stderr, "[POOL] scavenged %d-byte block for %d-byte request\n",
						len(b), size)
				}
				return a.chunkAlloc(size, nblocks)
			}
		}
		return nil, 0, err
	}

	a.totalHeapBytes += uint64(want)
	a.pool = mem
	return a.chunkAlloc(size, nblocks)
}

// rawAlloc requests n bytes from the raw allocator, retrying through the
// OOM handler before failing.
func (a *Allocator) rawAlloc(n int) ([]byte, error) {
	for {
		b, err := a.raw.Alloc(n)
		if err == nil {
			a.stats.RawCalls++
			a.stats.RawBytes += uint64(n)
			if a.onRawAlloc != nil {
				a.onRawAlloc(n)
			}
			return b, nil
		}
		if a.oomHandler == nil || !a.oomHandler() {
			return nil, fmt.Errorf("%w: raw allocator failed for %d bytes", ErrOutOfMemory, n)
		}
	}
}

// SetOOMHandler installs a callback invoked when the raw allocator fails.
// It is called in a loop: return true to retry the raw allocation (after
// presumably releasing memory elsewhere), false to give up. Passing nil
// removes the handler.
func (a *Allocator) SetOOMHandler(fn func() bool) {
	a.oomHandler = fn
}

// Stats returns a copy of the allocator's internal counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// TotalHeapBytes reports the bytes ever requested from the raw allocator
// for pool expansion.
func (a *Allocator) TotalHeapBytes() uint64 {
	return a.totalHeapBytes
}

// PoolRemaining reports the bytes left in the un-carved pool region.
func (a *Allocator) PoolRemaining() int {
	return len(a.pool)
}

// FreeBlocks reports the number of free blocks held for the class serving
// n-byte requests. It returns 0 for n outside (0, MaxSmall].
func (a *Allocator) FreeBlocks(n int) int {
	if n <= 0 || n > MaxSmall {
		return 0
	}
	return len(a.freeLists[classIndex(n)])
}
