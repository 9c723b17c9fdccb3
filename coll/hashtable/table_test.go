package hashtable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collkit/collkit/coll/arena"
)

func newIntTable() *Table[int, int] {
	return New(func(v int) int { return v }, HashInteger[int], EqualOf[int])
}

// newClusteredTable hashes every key to the same value, forcing all keys
// into one bucket chain.
func newClusteredTable() *Table[int, int] {
	return New(func(v int) int { return v }, func(int) uint64 { return 11 }, EqualOf[int])
}

func Test_EmptyTable(t *testing.T) {
	tb := newIntTable()

	require.True(t, tb.Empty())
	require.Zero(t, tb.Len())
	require.Equal(t, 53, tb.BucketCount())
	require.True(t, tb.Find(1).IsEnd())
	require.True(t, tb.Begin().IsEnd())
	require.Zero(t, tb.Count(1))
	require.Zero(t, tb.LoadFactor())
	require.NoError(t, tb.Validate())
}

func Test_InsertUnique_FindAndCount(t *testing.T) {
	tb := newIntTable()

	for i := range 40 {
		it, ok, err := tb.InsertUnique(i)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i, it.Value())
	}
	require.Equal(t, 40, tb.Len())

	for i := range 40 {
		it := tb.Find(i)
		require.False(t, it.IsEnd())
		require.Equal(t, i, it.Value())
		require.Equal(t, 1, tb.Count(i))
	}
	require.True(t, tb.Find(999).IsEnd())
	require.NoError(t, tb.Validate())
}

// With 53 initial buckets, the insert that pushes the element count past
// the bucket count rehashes to 97, and every key stays findable.
func Test_Resize_GrowsAtLoadBoundary(t *testing.T) {
	tb := newIntTable()

	var rehashedTo []int
	tb.onRehash = func(n int) { rehashedTo = append(rehashedTo, n) }

	for i := range 53 {
		_, ok, err := tb.InsertUnique(i)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 53, tb.BucketCount(), "insert %d must not grow", i)
	}
	require.Empty(t, rehashedTo)

	for i := 53; i < 60; i++ {
		_, ok, err := tb.InsertUnique(i)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, []int{97}, rehashedTo)
	require.Equal(t, 97, tb.BucketCount())

	for i := range 60 {
		require.False(t, tb.Find(i).IsEnd(), "key %d lost in rehash", i)
	}
	require.NoError(t, tb.Validate())
}

// Test_InsertUnique_DuplicateAtBoundaryStillRehashes pins the documented
// resize-before-probe ordering: a rejected duplicate at the growth
// boundary still grows the bucket array.
func Test_InsertUnique_DuplicateAtBoundaryStillRehashes(t *testing.T) {
	tb := newIntTable()

	for i := range 53 {
		_, _, err := tb.InsertUnique(i)
		require.NoError(t, err)
	}
	require.Equal(t, 53, tb.BucketCount())

	_, ok, err := tb.InsertUnique(0)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 53, tb.Len())
	require.Equal(t, 97, tb.BucketCount())
	require.NoError(t, tb.Validate())
}

func Test_InsertEqual_KeepsEqualKeysContiguous(t *testing.T) {
	tb := newClusteredTable()

	for _, k := range []int{1, 2, 1, 3, 1} {
		_, err := tb.InsertEqual(k)
		require.NoError(t, err)
	}
	require.Equal(t, 5, tb.Len())
	require.Equal(t, 3, tb.Count(1))

	// All keys share one bucket; the three 1s must be adjacent in its chain.
	b := tb.Bucket(1)
	require.Equal(t, 5, tb.BucketLen(b))
	var chain []int
	for idx := tb.buckets[b]; idx != 0; idx = tb.n(idx).next {
		chain = append(chain, tb.n(idx).value)
	}
	first := -1
	for i, v := range chain {
		if v == 1 {
			first = i
			break
		}
	}
	require.NotEqual(t, -1, first)
	require.Equal(t, []int{1, 1, 1}, chain[first:first+3])

	lo, hi := tb.EqualRange(1)
	n := 0
	for it := lo; !it.Equal(hi); it = it.Next() {
		require.Equal(t, 1, it.Value())
		n++
	}
	require.Equal(t, 3, n)
	require.NoError(t, tb.Validate())
}

func Test_Erase_ByIteratorAndKey(t *testing.T) {
	tb := newIntTable()
	for i := range 20 {
		_, _, err := tb.InsertUnique(i)
		require.NoError(t, err)
	}

	require.NoError(t, tb.Erase(tb.Find(7)))
	require.True(t, tb.Find(7).IsEnd())
	require.Equal(t, 19, tb.Len())

	require.Equal(t, 1, tb.EraseKey(8))
	require.Zero(t, tb.EraseKey(8))
	require.Equal(t, 18, tb.Len())
	require.NoError(t, tb.Validate())
}

func Test_Erase_BadIterators(t *testing.T) {
	tb := newIntTable()
	other := newIntTable()
	_, _, err := tb.InsertUnique(1)
	require.NoError(t, err)
	_, _, err = other.InsertUnique(1)
	require.NoError(t, err)

	require.ErrorIs(t, tb.Erase(tb.End()), ErrBadIterator)
	require.ErrorIs(t, tb.Erase(other.Find(1)), ErrBadIterator)

	it := tb.Find(1)
	require.NoError(t, tb.Erase(it))
	require.ErrorIs(t, tb.Erase(it), ErrBadIterator)
}

func Test_Erase_StaleIteratorAfterSlotReuse(t *testing.T) {
	tb := newIntTable()
	for i := 1; i <= 3; i++ {
		_, _, err := tb.InsertUnique(i)
		require.NoError(t, err)
	}

	// Erase 2, then insert a key that reuses the freed arena slot. The
	// old iterator must not pass for the new occupant.
	stale := tb.Find(2)
	require.NoError(t, tb.Erase(stale))
	_, _, err := tb.InsertUnique(99)
	require.NoError(t, err)

	require.False(t, stale.Ok())
	require.ErrorIs(t, tb.Erase(stale), ErrBadIterator)
	require.Panics(t, func() { stale.Value() })

	require.Equal(t, 3, tb.Len())
	require.False(t, tb.Find(99).IsEnd())
	require.NoError(t, tb.Validate())
}

func Test_EraseKey_RemovesWholeRunInClusteredBucket(t *testing.T) {
	tb := newClusteredTable()
	for _, k := range []int{5, 9, 5, 2, 5, 9} {
		_, err := tb.InsertEqual(k)
		require.NoError(t, err)
	}

	require.Equal(t, 3, tb.EraseKey(5))
	require.Zero(t, tb.Count(5))
	require.Equal(t, 2, tb.Count(9))
	require.Equal(t, 1, tb.Count(2))
	require.Equal(t, 3, tb.Len())
	require.NoError(t, tb.Validate())
}

func Test_RoundTrip_DrainLeavesEmptyTable(t *testing.T) {
	tb := newIntTable()

	const n = 60
	for i := range n {
		_, _, err := tb.InsertUnique(i)
		require.NoError(t, err)
	}
	for i := range n {
		require.Equal(t, 1, tb.EraseKey(i))
	}

	require.Zero(t, tb.Len())
	for i := range n {
		require.True(t, tb.Find(i).IsEnd())
	}
	require.NoError(t, tb.Validate())
}

func Test_Iterator_VisitsEveryValueOnce(t *testing.T) {
	tb := newIntTable()
	for i := range 100 {
		_, _, err := tb.InsertUnique(i)
		require.NoError(t, err)
	}

	seen := map[int]bool{}
	for it := tb.Begin(); !it.IsEnd(); it = it.Next() {
		v := it.Value()
		require.False(t, seen[v], "value %d visited twice", v)
		seen[v] = true
	}
	require.Len(t, seen, 100)
}

func Test_Resize_ExplicitAndNoOp(t *testing.T) {
	tb := newIntTable()
	for i := range 10 {
		_, _, err := tb.InsertUnique(i)
		require.NoError(t, err)
	}

	tb.Resize(10) // below current count: no-op
	require.Equal(t, 53, tb.BucketCount())

	tb.Resize(500)
	require.Equal(t, 769, tb.BucketCount())
	for i := range 10 {
		require.False(t, tb.Find(i).IsEnd())
	}
	require.NoError(t, tb.Validate())
}

func Test_Insert_AllocationFailurePropagates(t *testing.T) {
	tb := NewWithConfig(
		func(v int) int { return v },
		HashInteger[int],
		EqualOf[int],
		&Config{Arena: &arena.Config{MaxSlots: 2}},
	)

	for i := range 2 {
		_, _, err := tb.InsertUnique(i)
		require.NoError(t, err)
	}
	_, _, err := tb.InsertUnique(99)
	require.ErrorIs(t, err, arena.ErrOutOfMemory)
	_, err = tb.InsertEqual(99)
	require.ErrorIs(t, err, arena.ErrOutOfMemory)

	require.Equal(t, 2, tb.Len())
	require.NoError(t, tb.Validate())
}

func Test_Clear_KeepsBucketCount(t *testing.T) {
	tb := newIntTable()
	for i := range 200 {
		_, _, err := tb.InsertUnique(i)
		require.NoError(t, err)
	}
	grown := tb.BucketCount()
	require.Greater(t, grown, 53)

	tb.Clear()
	require.Zero(t, tb.Len())
	require.Equal(t, grown, tb.BucketCount())
	require.True(t, tb.Begin().IsEnd())

	_, _, err := tb.InsertUnique(5)
	require.NoError(t, err)
	require.Equal(t, 1, tb.Len())
}

func Test_HashString_SpreadsKeys(t *testing.T) {
	// Sanity: distinct strings produce distinct hashes for a small corpus.
	seen := map[uint64]string{}
	for _, s := range []string{"", "a", "b", "ab", "ba", "abc", "collkit", "kollcit"} {
		h := HashString(s)
		prev, dup := seen[h]
		require.False(t, dup, "collision between %q and %q", prev, s)
		seen[h] = s
	}
	require.Equal(t, HashBytes([]byte("collkit")), HashString("collkit"))
}
