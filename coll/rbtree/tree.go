package rbtree

import (
	"errors"

	"golang.org/x/exp/constraints"

	"github.com/collkit/collkit/coll/arena"
)

// ErrBadIterator indicates an Erase with an end iterator or an iterator
// whose node no longer exists.
var ErrBadIterator = errors.New("rbtree: iterator does not reference a live node")

type color bool

const (
	red   color = false
	black color = true
)

// node links are arena slot indices; 0 is nil.
type node[T any] struct {
	left   uint32
	right  uint32
	parent uint32
	color  color
	value  T
}

// Tree is a red-black tree storing values of type T ordered by keys of type
// K extracted via the keyOf projection.
type Tree[T, K any] struct {
	nodes *arena.Arena[node[T]]
	keyOf func(T) K
	less  func(K, K) bool

	root  uint32
	min   uint32 // leftmost node, 0 when empty
	max   uint32 // rightmost node, 0 when empty
	count int
}

// New creates an empty tree. keyOf projects the ordering key out of a
// stored value; less is a strict weak order over keys.
func New[T, K any](keyOf func(T) K, less func(K, K) bool) *Tree[T, K] {
	return NewWithConfig(keyOf, less, nil)
}

// NewWithConfig creates an empty tree whose node arena is built from cfg.
// Tests use the arena's slot limit to exercise allocation-failure paths.
func NewWithConfig[T, K any](keyOf func(T) K, less func(K, K) bool, cfg *arena.Config) *Tree[T, K] {
	return &Tree[T, K]{
		nodes: arena.New[node[T]](cfg),
		keyOf: keyOf,
		less:  less,
	}
}

// OrderedLess is the natural ordering for any ordered key type.
func OrderedLess[K constraints.Ordered](a, b K) bool {
	return a < b
}

func (t *Tree[T, K]) n(idx uint32) *node[T] {
	return t.nodes.At(idx)
}

// iter builds an iterator at node, capturing the slot generation so the
// iterator stales when the node is erased, even if the slot is reused.
func (t *Tree[T, K]) iter(node uint32) Iterator[T, K] {
	it := Iterator[T, K]{tree: t, node: node}
	if node != 0 && node != negLimit {
		it.gen = t.nodes.Gen(node)
	}
	return it
}

func (t *Tree[T, K]) key(idx uint32) K {
	return t.keyOf(t.nodes.At(idx).value)
}

// Len returns the number of stored values.
func (t *Tree[T, K]) Len() int {
	return t.count
}

// Empty reports whether the tree has no values.
func (t *Tree[T, K]) Empty() bool {
	return t.count == 0
}

// Clear removes every value. All outstanding iterators become invalid.
func (t *Tree[T, K]) Clear() {
	t.nodes.Reset()
	t.root = 0
	t.min = 0
	t.max = 0
	t.count = 0
}

// Begin returns an iterator at the smallest value, or End for an empty tree.
func (t *Tree[T, K]) Begin() Iterator[T, K] {
	return t.iter(t.min)
}

// End returns the past-the-end iterator.
func (t *Tree[T, K]) End() Iterator[T, K] {
	return t.iter(0)
}

// Min returns an iterator at the smallest value, or End if empty.
func (t *Tree[T, K]) Min() Iterator[T, K] {
	return t.iter(t.min)
}

// Max returns an iterator at the largest value, or End if empty.
func (t *Tree[T, K]) Max() Iterator[T, K] {
	return t.iter(t.max)
}

// LowerBound returns an iterator at the first value whose key is not less
// than k, or End.
func (t *Tree[T, K]) LowerBound(k K) Iterator[T, K] {
	var y uint32
	x := t.root
	for x != 0 {
		if !t.less(t.key(x), k) {
			y = x
			x = t.n(x).left
		} else {
			x = t.n(x).right
		}
	}
	return t.iter(y)
}

// UpperBound returns an iterator at the first value whose key is greater
// than k, or End.
func (t *Tree[T, K]) UpperBound(k K) Iterator[T, K] {
	var y uint32
	x := t.root
	for x != 0 {
		if t.less(k, t.key(x)) {
			y = x
			x = t.n(x).left
		} else {
			x = t.n(x).right
		}
	}
	return t.iter(y)
}

// EqualRange returns the half-open run of values with keys equal to k.
func (t *Tree[T, K]) EqualRange(k K) (Iterator[T, K], Iterator[T, K]) {
	return t.LowerBound(k), t.UpperBound(k)
}

// Find returns an iterator at some value with a key equal to k, or End.
// With duplicate keys present it lands on the first of the equal run.
func (t *Tree[T, K]) Find(k K) Iterator[T, K] {
	it := t.LowerBound(k)
	if it.node == 0 || t.less(k, t.key(it.node)) {
		return t.End()
	}
	return it
}

// Count returns the number of values with keys equal to k.
func (t *Tree[T, K]) Count(k K) int {
	n := 0
	for it, end := t.EqualRange(k); it.node != end.node; it = it.Next() {
		n++
	}
	return n
}

// ArenaStats exposes the node arena's counters for tests and the bench
// driver.
func (t *Tree[T, K]) ArenaStats() arena.Stats {
	return t.nodes.Stats()
}
