package pool

import "errors"

var (
	// ErrOutOfMemory indicates the raw allocator failed and no pooled
	// fallback block could be scavenged.
	ErrOutOfMemory = errors.New("pool: out of memory")

	// ErrBadSize indicates a zero or negative size was passed to
	// Allocate or Deallocate.
	ErrBadSize = errors.New("pool: size must be positive")

	// ErrBadBlock indicates a Deallocate call with a slice too small to be
	// a block of the reported size class.
	ErrBadBlock = errors.New("pool: block smaller than reported size")
)
