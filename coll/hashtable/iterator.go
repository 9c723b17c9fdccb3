package hashtable

// Iterator references a stored value. Iteration is forward-only; the order
// is unspecified and changes whenever a rehash occurs. The captured slot
// generation makes a stale iterator detectable even after the slot has
// been reused by a later insert.
type Iterator[T, K any] struct {
	table  *Table[T, K]
	node   uint32
	bucket int
	gen    uint32
}

// Ok reports whether the iterator references a live value it was created
// on. It is false for end iterators and for iterators staled by an erase.
func (it Iterator[T, K]) Ok() bool {
	return it.node != 0 && it.table.nodes.LiveGen(it.node, it.gen)
}

// IsEnd reports whether the iterator is past the last value.
func (it Iterator[T, K]) IsEnd() bool {
	return it.node == 0
}

// Value returns the referenced value. It panics on an end or stale
// iterator.
func (it Iterator[T, K]) Value() T {
	if !it.Ok() {
		panic("hashtable: Value on end or stale iterator")
	}
	return it.table.n(it.node).value
}

// Key returns the projection of the referenced value.
func (it Iterator[T, K]) Key() K {
	if !it.Ok() {
		panic("hashtable: Key on end or stale iterator")
	}
	return it.table.key(it.node)
}

// Equal reports whether two iterators reference the same position.
func (it Iterator[T, K]) Equal(other Iterator[T, K]) bool {
	return it.node == other.node
}

// Next returns an iterator at the next value: the rest of the current
// chain, then the head of the next non-empty bucket.
func (it Iterator[T, K]) Next() Iterator[T, K] {
	t := it.table
	if it.node == 0 {
		return it
	}
	if next := t.n(it.node).next; next != 0 {
		return t.iter(next, it.bucket)
	}
	for b := it.bucket + 1; b < len(t.buckets); b++ {
		if t.buckets[b] != 0 {
			return t.iter(t.buckets[b], b)
		}
	}
	return t.End()
}

// Begin returns an iterator at the first value in iteration order, or End
// for an empty table.
func (t *Table[T, K]) Begin() Iterator[T, K] {
	for b := range t.buckets {
		if t.buckets[b] != 0 {
			return t.iter(t.buckets[b], b)
		}
	}
	return t.End()
}

// End returns the past-the-end iterator.
func (t *Table[T, K]) End() Iterator[T, K] {
	return t.iter(0, 0)
}
