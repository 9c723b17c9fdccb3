package hashtable

import (
	"errors"

	"github.com/collkit/collkit/coll/arena"
	"github.com/collkit/collkit/internal/primes"
)

// ErrBadIterator indicates an Erase with an end iterator or an iterator
// whose node no longer exists.
var ErrBadIterator = errors.New("hashtable: iterator does not reference a live node")

// node chains through arena slot indices; 0 terminates a chain.
type node[T any] struct {
	next  uint32
	value T
}

// Config holds construction options for a Table.
type Config struct {
	// InitialBuckets is rounded up to the next prime. Zero selects the
	// smallest prime (53).
	InitialBuckets uint64

	// Arena configures the node arena; used by tests to exercise
	// allocation-failure paths.
	Arena *arena.Config
}

// Stats holds internal table counters.
type Stats struct {
	Rehashes   int // Bucket-array growths
	NodesMoved int // Nodes relocated across all rehashes
}

// Table is a chained hash table storing values of type T keyed by K via
// the keyOf projection.
type Table[T, K any] struct {
	nodes *arena.Arena[node[T]]
	keyOf func(T) K
	hash  func(K) uint64
	equal func(K, K) bool

	buckets []uint32
	count   int

	stats Stats

	// Test hook: called with the new bucket count after every rehash
	// (nil in production).
	onRehash func(int)
}

// New creates an empty table with the smallest prime bucket count. keyOf
// projects the hashing key out of a stored value; hash and equal must
// agree (equal keys hash identically).
func New[T, K any](keyOf func(T) K, hash func(K) uint64, equal func(K, K) bool) *Table[T, K] {
	return NewWithConfig(keyOf, hash, equal, nil)
}

// NewWithConfig creates an empty table from cfg.
func NewWithConfig[T, K any](keyOf func(T) K, hash func(K) uint64, equal func(K, K) bool, cfg *Config) *Table[T, K] {
	var initial uint64 = primes.Min
	var acfg *arena.Config
	if cfg != nil {
		if cfg.InitialBuckets > 0 {
			initial = primes.NextPrime(cfg.InitialBuckets)
		}
		acfg = cfg.Arena
	}
	return &Table[T, K]{
		nodes:   arena.New[node[T]](acfg),
		keyOf:   keyOf,
		hash:    hash,
		equal:   equal,
		buckets: make([]uint32, initial),
	}
}

func (t *Table[T, K]) n(idx uint32) *node[T] {
	return t.nodes.At(idx)
}

// iter builds an iterator at node, capturing the slot generation so the
// iterator stales when the node is erased, even if the slot is reused.
func (t *Table[T, K]) iter(node uint32, bucket int) Iterator[T, K] {
	it := Iterator[T, K]{table: t, node: node, bucket: bucket}
	if node != 0 {
		it.gen = t.nodes.Gen(node)
	}
	return it
}

func (t *Table[T, K]) key(idx uint32) K {
	return t.keyOf(t.nodes.At(idx).value)
}

// bucketFor maps a key to its bucket index under the current bucket count.
func (t *Table[T, K]) bucketFor(k K) int {
	return int(t.hash(k) % uint64(len(t.buckets)))
}

// Len returns the number of stored values.
func (t *Table[T, K]) Len() int {
	return t.count
}

// Empty reports whether the table has no values.
func (t *Table[T, K]) Empty() bool {
	return t.count == 0
}

// BucketCount returns the current number of buckets.
func (t *Table[T, K]) BucketCount() int {
	return len(t.buckets)
}

// Bucket returns the bucket index the key currently maps to.
func (t *Table[T, K]) Bucket(k K) int {
	return t.bucketFor(k)
}

// BucketLen returns the chain length of bucket i.
func (t *Table[T, K]) BucketLen(i int) int {
	n := 0
	for idx := t.buckets[i]; idx != 0; idx = t.n(idx).next {
		n++
	}
	return n
}

// LoadFactor returns the ratio of stored values to buckets.
func (t *Table[T, K]) LoadFactor() float64 {
	return float64(t.count) / float64(len(t.buckets))
}

// Stats returns a copy of the table's internal counters.
func (t *Table[T, K]) Stats() Stats {
	return t.stats
}

// Find returns an iterator at some value with a key equal to k, or End.
// With duplicates present it lands on the first of the bucket's equal run.
func (t *Table[T, K]) Find(k K) Iterator[T, K] {
	b := t.bucketFor(k)
	for idx := t.buckets[b]; idx != 0; idx = t.n(idx).next {
		if t.equal(t.key(idx), k) {
			return t.iter(idx, b)
		}
	}
	return t.End()
}

// Count returns the number of values with keys equal to k.
func (t *Table[T, K]) Count(k K) int {
	n := 0
	b := t.bucketFor(k)
	for idx := t.buckets[b]; idx != 0; idx = t.n(idx).next {
		if t.equal(t.key(idx), k) {
			n++
		}
	}
	return n
}

// EqualRange returns the half-open run of values with keys equal to k. The
// second iterator may reference the first value of a later bucket.
func (t *Table[T, K]) EqualRange(k K) (Iterator[T, K], Iterator[T, K]) {
	first := t.Find(k)
	if first.IsEnd() {
		return first, first
	}
	last := first.Next()
	for !last.IsEnd() && last.bucket == first.bucket && t.equal(t.key(last.node), k) {
		last = last.Next()
	}
	return first, last
}

// InsertEqual inserts v, permitting duplicate keys. A value with an
// already-present key is linked immediately after the first equal value in
// its bucket, keeping equal keys contiguous.
func (t *Table[T, K]) InsertEqual(v T) (Iterator[T, K], error) {
	t.resizeFor(t.count + 1)

	idx, err := t.nodes.Alloc()
	if err != nil {
		return t.End(), err
	}
	k := t.keyOf(v)
	b := t.bucketFor(k)

	n := t.n(idx)
	n.value = v

	for cur := t.buckets[b]; cur != 0; cur = t.n(cur).next {
		if t.equal(t.key(cur), k) {
			n.next = t.n(cur).next
			t.n(cur).next = idx
			t.count++
			return t.iter(idx, b), nil
		}
	}

	n.next = t.buckets[b]
	t.buckets[b] = idx
	t.count++
	return t.iter(idx, b), nil
}

// InsertUnique inserts v only if no stored key compares equal to v's key.
// It returns an iterator at the inserted or existing value and whether
// insertion happened. The load check runs before the duplicate probe, so a
// rejected insert at the growth boundary still rehashes.
func (t *Table[T, K]) InsertUnique(v T) (Iterator[T, K], bool, error) {
	t.resizeFor(t.count + 1)

	k := t.keyOf(v)
	b := t.bucketFor(k)
	for cur := t.buckets[b]; cur != 0; cur = t.n(cur).next {
		if t.equal(t.key(cur), k) {
			return t.iter(cur, b), false, nil
		}
	}

	idx, err := t.nodes.Alloc()
	if err != nil {
		return t.End(), false, err
	}
	n := t.n(idx)
	n.value = v
	n.next = t.buckets[b]
	t.buckets[b] = idx
	t.count++
	return t.iter(idx, b), true, nil
}

// Erase removes the value the iterator references.
func (t *Table[T, K]) Erase(it Iterator[T, K]) error {
	if it.table != t || !t.nodes.LiveGen(it.node, it.gen) {
		return ErrBadIterator
	}

	// Nodes hold only a forward link; walk from the bucket head to find
	// the predecessor.
	b := it.bucket
	cur := t.buckets[b]
	if cur == it.node {
		t.buckets[b] = t.n(cur).next
	} else {
		for t.n(cur).next != it.node {
			cur = t.n(cur).next
			if cur == 0 {
				return ErrBadIterator
			}
		}
		t.n(cur).next = t.n(it.node).next
	}

	if err := t.nodes.Free(it.node); err != nil {
		panic("hashtable: " + err.Error())
	}
	t.count--
	return nil
}

// EraseKey removes every value whose key equals k and returns how many
// were removed.
func (t *Table[T, K]) EraseKey(k K) int {
	b := t.bucketFor(k)
	removed := 0

	for t.buckets[b] != 0 && t.equal(t.key(t.buckets[b]), k) {
		head := t.buckets[b]
		t.buckets[b] = t.n(head).next
		t.freeNode(head)
		removed++
	}
	if t.buckets[b] != 0 {
		cur := t.buckets[b]
		for t.n(cur).next != 0 {
			next := t.n(cur).next
			if t.equal(t.key(next), k) {
				t.n(cur).next = t.n(next).next
				t.freeNode(next)
				removed++
			} else {
				cur = next
			}
		}
	}
	return removed
}

func (t *Table[T, K]) freeNode(idx uint32) {
	if err := t.nodes.Free(idx); err != nil {
		panic("hashtable: " + err.Error())
	}
	t.count--
}

// Resize grows the bucket array to at least target buckets (rounded up to
// a prime) and redistributes every node. Shrinking is not supported;
// target <= BucketCount is a no-op.
func (t *Table[T, K]) Resize(target int) {
	if target <= len(t.buckets) {
		return
	}
	t.rehash(primes.NextPrime(uint64(target)))
}

// resizeFor grows the table when holding n elements would exceed one per
// bucket.
func (t *Table[T, K]) resizeFor(n int) {
	if n <= len(t.buckets) {
		return
	}
	next := primes.NextPrime(uint64(n))
	if next <= uint64(len(t.buckets)) {
		return // already at the table's ceiling
	}
	t.rehash(next)
}

// rehash moves every node into a fresh bucket array of newCount chains.
// Nodes are relinked, not copied; values never move in the arena.
func (t *Table[T, K]) rehash(newCount uint64) {
	old := t.buckets
	t.buckets = make([]uint32, newCount)

	for _, head := range old {
		for head != 0 {
			next := t.n(head).next
			b := t.bucketFor(t.key(head))
			t.n(head).next = t.buckets[b]
			t.buckets[b] = head
			head = next
			t.stats.NodesMoved++
		}
	}

	t.stats.Rehashes++
	if t.onRehash != nil {
		t.onRehash(len(t.buckets))
	}
}

// Clear removes every value but keeps the current bucket count.
func (t *Table[T, K]) Clear() {
	t.nodes.Reset()
	for i := range t.buckets {
		t.buckets[i] = 0
	}
	t.count = 0
}

// ArenaStats exposes the node arena's counters for tests and the bench
// driver.
func (t *Table[T, K]) ArenaStats() arena.Stats {
	return t.nodes.Stats()
}
