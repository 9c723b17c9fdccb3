package rbtree

// negLimit is the before-the-beginning iterator position, so Prev of Begin
// is well-defined and Next from it lands back on the minimum.
const negLimit = ^uint32(0)

// Iterator references a stored value. The zero Iterator of a tree is its
// End. Iterators remain valid across inserts and across erasure of other
// elements; erasing the referenced element invalidates the iterator. The
// captured slot generation makes a stale iterator detectable even after
// the slot has been reused by a later insert.
type Iterator[T, K any] struct {
	tree *Tree[T, K]
	node uint32
	gen  uint32
}

// Ok reports whether the iterator references a live value it was created
// on. It is false for end iterators and for iterators staled by an erase.
func (it Iterator[T, K]) Ok() bool {
	return it.node != 0 && it.node != negLimit && it.tree.nodes.LiveGen(it.node, it.gen)
}

// IsEnd reports whether the iterator is past the last value.
func (it Iterator[T, K]) IsEnd() bool {
	return it.node == 0
}

// Value returns the referenced value. It panics on an end iterator.
func (it Iterator[T, K]) Value() T {
	if !it.Ok() {
		panic("rbtree: Value on end or stale iterator")
	}
	return it.tree.n(it.node).value
}

// Key returns the projection of the referenced value.
func (it Iterator[T, K]) Key() K {
	if !it.Ok() {
		panic("rbtree: Key on end or stale iterator")
	}
	return it.tree.key(it.node)
}

// Equal reports whether two iterators reference the same position.
func (it Iterator[T, K]) Equal(other Iterator[T, K]) bool {
	return it.node == other.node
}

// Next returns an iterator at the in-order successor. Next of the maximum
// is End; Next of the before-the-beginning position is the minimum.
func (it Iterator[T, K]) Next() Iterator[T, K] {
	t := it.tree
	if it.node == negLimit {
		return t.iter(t.min)
	}
	if it.node == 0 {
		return it
	}
	x := it.node
	if r := t.n(x).right; r != 0 {
		return t.iter(t.subtreeMin(r))
	}
	// Climb while we are a right child; the first ancestor reached from
	// the left is the successor. Reaching 0 means x was the maximum.
	y := t.n(x).parent
	for y != 0 && x == t.n(y).right {
		x = y
		y = t.n(y).parent
	}
	return t.iter(y)
}

// Prev returns an iterator at the in-order predecessor. Prev of End is the
// maximum; Prev of the minimum is the before-the-beginning position.
func (it Iterator[T, K]) Prev() Iterator[T, K] {
	t := it.tree
	if it.node == 0 {
		return t.iter(t.max)
	}
	if it.node == negLimit {
		return it
	}
	if it.node == t.min {
		return t.iter(negLimit)
	}
	return t.iter(t.predecessor(it.node))
}

// predecessor returns the in-order predecessor of a live node. The caller
// guarantees one exists.
func (t *Tree[T, K]) predecessor(x uint32) uint32 {
	if l := t.n(x).left; l != 0 {
		return t.subtreeMax(l)
	}
	y := t.n(x).parent
	for y != 0 && x == t.n(y).left {
		x = y
		y = t.n(y).parent
	}
	return y
}
