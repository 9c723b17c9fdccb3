//go:build unix

package pool

import (
	"golang.org/x/sys/unix"
)

// mmapRaw serves chunk requests from anonymous mmap pages, keeping pool
// memory out of the Go heap entirely. Pages are never unmapped: the pool
// owns its memory for the allocator's lifetime.
type mmapRaw struct{}

func (mmapRaw) Alloc(n int) ([]byte, error) {
	pageSize := unix.Getpagesize()
	size := (n + pageSize - 1) &^ (pageSize - 1)

	mem, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return mem[:n], nil
}

// NewMmapRaw returns a RawAllocator backed by anonymous mmap pages.
func NewMmapRaw() RawAllocator {
	return mmapRaw{}
}
