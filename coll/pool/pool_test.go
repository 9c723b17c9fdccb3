package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// failingRaw fails every allocation until armed.
type failingRaw struct {
	allowed int // number of calls that succeed before failing
	calls   int
}

func (f *failingRaw) Alloc(n int) ([]byte, error) {
	f.calls++
	if f.allowed <= 0 {
		return nil, errors.New("raw exhausted")
	}
	f.allowed--
	return make([]byte, n), nil
}

func Test_Allocate_RoundsUpToClassSize(t *testing.T) {
	a := New(nil)

	for _, tc := range []struct {
		request int
		block   int
	}{
		{1, 8}, {7, 8}, {8, 8}, {9, 16}, {16, 16}, {17, 24},
		{100, 104}, {127, 128}, {128, 128},
	} {
		b, err := a.Allocate(tc.request)
		require.NoError(t, err)
		require.Len(t, b, tc.block, "request %d", tc.request)
	}
}

func Test_Allocate_RejectsBadSizes(t *testing.T) {
	a := New(nil)

	_, err := a.Allocate(0)
	require.ErrorIs(t, err, ErrBadSize)

	_, err = a.Allocate(-8)
	require.ErrorIs(t, err, ErrBadSize)

	require.ErrorIs(t, a.Deallocate(nil, 0), ErrBadSize)
}

func Test_Allocate_LargeBypassesPool(t *testing.T) {
	a := New(nil)

	before := a.Stats().RawCalls
	b, err := a.Allocate(MaxSmall + 1)
	require.NoError(t, err)
	require.Len(t, b, MaxSmall+1)
	require.Equal(t, before+1, a.Stats().RawCalls)

	// Pool state untouched by the large request.
	require.Zero(t, a.PoolRemaining())
	require.NoError(t, a.Deallocate(b, MaxSmall+1))
}

func Test_Refill_CarvesBatchOfTwenty(t *testing.T) {
	a := New(nil)

	_, err := a.Allocate(16)
	require.NoError(t, err)

	// One block went to the caller, 19 went to the free list.
	require.Equal(t, 19, a.FreeBlocks(16))
	require.Equal(t, 1, a.Stats().Refills)
}

func Test_Deallocate_LIFOReuse(t *testing.T) {
	a := New(nil)

	b1, err := a.Allocate(24)
	require.NoError(t, err)
	b1[0] = 0xAB

	require.NoError(t, a.Deallocate(b1, 24))

	// The next allocation of the same class returns the freed block (LIFO),
	// with its previous contents intact: the pool does not zero memory.
	b2, err := a.Allocate(24)
	require.NoError(t, err)
	require.Equal(t, &b1[0], &b2[0])
	require.Equal(t, byte(0xAB), b2[0])
}

func Test_Deallocate_RejectsShortBlock(t *testing.T) {
	a := New(nil)
	require.ErrorIs(t, a.Deallocate(make([]byte, 4), 24), ErrBadBlock)
}

// After freeing a batch, re-allocating the same class must be served
// entirely from the free list with no further raw allocator calls.
func Test_FreeListServesSecondBatch(t *testing.T) {
	a := New(nil)

	const n = 1000
	blocks := make([][]byte, n)

	var err error
	for i := range blocks {
		blocks[i], err = a.Allocate(16)
		require.NoError(t, err)
	}
	for i := range blocks {
		require.NoError(t, a.Deallocate(blocks[i], 16))
	}

	rawBefore := a.Stats().RawCalls
	var hookCalls int
	a.onRawAlloc = func(int) { hookCalls++ }

	for i := range blocks {
		blocks[i], err = a.Allocate(16)
		require.NoError(t, err)
	}

	require.Equal(t, rawBefore, a.Stats().RawCalls)
	require.Zero(t, hookCalls)
}

func Test_LiveBlocksNeverOverlap(t *testing.T) {
	a := New(nil)

	sizes := []int{8, 16, 16, 24, 40, 64, 64, 104, 128, 8, 24, 48}
	live := make([][]byte, 0, 512)

	// Interleave allocation and partial release across classes, stamping
	// every live block with its own index.
	for round := range 16 {
		for _, sz := range sizes {
			b, err := a.Allocate(sz)
			require.NoError(t, err)
			stamp := byte(len(live))
			for i := range b {
				b[i] = stamp
			}
			live = append(live, b)
		}
		if round%3 == 2 {
			// Free every fourth live block.
			kept := live[:0]
			for i, b := range live {
				if i%4 == 0 {
					require.NoError(t, a.Deallocate(b, len(b)))
				} else {
					kept = append(kept, b)
				}
			}
			// Restamp survivors to their new indices.
			live = kept
			for i, b := range live {
				for j := range b {
					b[j] = byte(i)
				}
			}
		}
	}

	for i, b := range live {
		for j := range b {
			require.Equal(t, byte(i), b[j], "block %d corrupted at offset %d", i, j)
		}
	}
}

func Test_ChunkAlloc_PartialBatchFromLowPool(t *testing.T) {
	// Grant exactly one raw allocation, so all subsequent refills must live
	// off the pool it produced.
	raw := &failingRaw{allowed: 1}
	a := New(&Config{Raw: raw})

	b, err := a.Allocate(128)
	require.NoError(t, err)
	require.Len(t, b, 128)

	// First expansion requested 2*20*128 = 5120 bytes; 19 blocks of 128 are
	// on the free list and 2560 bytes remain in the pool.
	require.Equal(t, 19, a.FreeBlocks(128))
	require.Equal(t, 2560, a.PoolRemaining())

	// Draining the free list and carving the remaining pool must not touch
	// the raw allocator again.
	for range 20 {
		_, err = a.Allocate(128)
		require.NoError(t, err)
	}
	require.Equal(t, 1, raw.calls)
}

func Test_ChunkAlloc_SpillsRemainderBeforeExpansion(t *testing.T) {
	raw := &failingRaw{allowed: 2}
	a := New(&Config{Raw: raw})

	// First refill: 2*20*8 = 320 bytes requested, 8 handed out, 152 in
	// free list (19 blocks), 160 left in pool.
	_, err := a.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, 160, a.PoolRemaining())

	// A 128-byte refill carves one block and leaves 32 bytes, too small for
	// another. The next 128-byte refill spills those 32 bytes into the
	// 32-byte class before expanding.
	_, err = a.Allocate(128)
	require.NoError(t, err)
	require.Equal(t, 32, a.PoolRemaining())

	spillsBefore := a.Stats().PoolSpills
	free32Before := a.FreeBlocks(32)

	_, err = a.Allocate(128)
	require.NoError(t, err)
	require.Equal(t, spillsBefore+1, a.Stats().PoolSpills)
	require.Equal(t, free32Before+1, a.FreeBlocks(32))
}

func Test_Scavenge_LargerClassServesAfterRawFailure(t *testing.T) {
	raw := &failingRaw{allowed: 1}
	a := New(&Config{Raw: raw})

	// Seed the 128-byte class, then drain the pool completely so only the
	// 128-byte free list holds memory.
	b, err := a.Allocate(128)
	require.NoError(t, err)
	require.NoError(t, a.Deallocate(b, 128))
	for a.PoolRemaining() >= 8 {
		_, err = a.Allocate(8)
		require.NoError(t, err)
	}
	require.Positive(t, a.FreeBlocks(128))

	// Raw is exhausted. A 40-byte request must scavenge a 128-byte block
	// and carve it: 3 blocks of 40 fit, 2 go to the free list.
	got, err := a.Allocate(40)
	require.NoError(t, err)
	require.Len(t, got, 40)
	require.Equal(t, 1, a.Stats().Scavenges)
	require.Equal(t, 2, a.FreeBlocks(40))
}

func Test_OOMHandler_RetriesThenSucceeds(t *testing.T) {
	raw := &failingRaw{allowed: 0}
	a := New(&Config{Raw: raw})

	retries := 0
	a.SetOOMHandler(func() bool {
		retries++
		raw.allowed = 1 // "release memory", let the next raw call succeed
		return true
	})

	b, err := a.Allocate(16)
	require.NoError(t, err)
	require.Len(t, b, 16)
	require.Equal(t, 1, retries)
}

func Test_OutOfMemory_WhenNoFallbackExists(t *testing.T) {
	raw := &failingRaw{allowed: 0}
	a := New(&Config{Raw: raw})

	_, err := a.Allocate(16)
	require.ErrorIs(t, err, ErrOutOfMemory)

	// With a handler that gives up immediately, the error is the same.
	a.SetOOMHandler(func() bool { return false })
	_, err = a.Allocate(16)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func Test_ExpansionGrowsWithHeapHistory(t *testing.T) {
	a := New(nil)

	_, err := a.Allocate(16)
	require.NoError(t, err)
	first := a.TotalHeapBytes()
	require.Equal(t, uint64(2*batchBlocks*16), first)

	// Exhaust the 16-byte class and its pool share, forcing a second
	// expansion, which must include the 1/16 heap-history surcharge.
	for a.FreeBlocks(16) > 0 || a.PoolRemaining() >= 16 {
		_, err = a.Allocate(16)
		require.NoError(t, err)
	}
	_, err = a.Allocate(16)
	require.NoError(t, err)

	second := a.TotalHeapBytes() - first
	require.Equal(t, uint64(2*batchBlocks*16)+uint64(roundUp(int(first>>4))), second)
}
