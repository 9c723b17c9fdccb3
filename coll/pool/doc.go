// Package pool implements a two-level memory allocator for small objects.
//
// # Overview
//
// The allocator segregates small requests (<= 128 bytes) into 16 size
// classes, each a multiple of 8 bytes, and serves them from per-class LIFO
// free lists. Requests above 128 bytes bypass the pool entirely and go to
// the raw allocator: large objects are rare per-object and not worth the
// pooling bookkeeping, while below the threshold allocation and release are
// O(1) list operations that avoid per-object heap metadata and the
// fragmentation caused by many small objects.
//
// # Two levels
//
// Level one is the RawAllocator, an injectable source of fresh memory. The
// default is the Go heap; on Unix an anonymous-mmap implementation is also
// available (NewMmapRaw). Level two is the pool: a contiguous region carved
// into fixed-size blocks in batches of up to 20. When a free list runs dry,
// the allocator refills it from the pool; when the pool runs dry, it grows
// by 2x the request plus a 1/16 share of everything ever requested from the
// raw allocator, so the number of raw calls stays logarithmic over the
// allocator's lifetime.
//
// # Usage
//
//	a := pool.New(nil)
//	b, err := a.Allocate(24)
//	if err != nil {
//	    return err
//	}
//	// ... use b ...
//	a.Deallocate(b, 24)
//
// Callers must release a block with the exact size they requested; the
// allocator stores no per-block sizes. A reused block's contents are
// whatever the previous holder left there - treat returned memory as
// uninitialized.
//
// # Failure
//
// When the raw allocator fails, the pool first retries via the optional OOM
// handler (SetOOMHandler), then scavenges larger free lists for a block it
// can carve, and only then fails with ErrOutOfMemory. Deallocating a block
// above 128 bytes simply drops the reference; the Go runtime reclaims it.
//
// # Thread safety
//
// Allocator instances are not safe for concurrent use. Callers must
// synchronize externally.
package pool
