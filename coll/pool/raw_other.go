//go:build !unix

package pool

// NewMmapRaw falls back to the Go heap on platforms without anonymous mmap.
func NewMmapRaw() RawAllocator {
	return heapRaw{}
}
