package pool

// RawAllocator supplies fresh memory to the pool. Implementations must
// return a slice of exactly n bytes or an error; they never return a short
// slice.
//
// Implementations:
//   - heapRaw: Go heap via make (default)
//   - mmapRaw: anonymous mmap pages (Unix only, see NewMmapRaw)
//
// Tests inject failing implementations to exercise the scavenging and OOM
// paths.
type RawAllocator interface {
	Alloc(n int) ([]byte, error)
}

// heapRaw allocates from the Go heap.
type heapRaw struct{}

func (heapRaw) Alloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}
