package containers

import (
	"golang.org/x/exp/constraints"

	"github.com/collkit/collkit/coll/rbtree"
)

// TreeSet is an ordered set with unique elements.
type TreeSet[K any] struct {
	tree *rbtree.Tree[K, K]
}

// NewTreeSet creates an ordered set over a naturally ordered element type.
func NewTreeSet[K constraints.Ordered]() *TreeSet[K] {
	return NewTreeSetLess(rbtree.OrderedLess[K])
}

// NewTreeSetLess creates an ordered set with a caller-supplied strict
// weak ordering.
func NewTreeSetLess[K any](less func(K, K) bool) *TreeSet[K] {
	return &TreeSet[K]{tree: rbtree.New(identity[K], less)}
}

func (s *TreeSet[K]) Len() int    { return s.tree.Len() }
func (s *TreeSet[K]) Empty() bool { return s.tree.Empty() }
func (s *TreeSet[K]) Clear()      { s.tree.Clear() }

// Add inserts k and reports whether it was absent.
func (s *TreeSet[K]) Add(k K) (bool, error) {
	_, ok, err := s.tree.InsertUnique(k)
	return ok, err
}

func (s *TreeSet[K]) Has(k K) bool {
	return !s.tree.Find(k).IsEnd()
}

// Delete removes k and reports whether it was present.
func (s *TreeSet[K]) Delete(k K) bool {
	return s.tree.EraseKey(k) > 0
}

// Min returns the smallest element. ok is false when empty.
func (s *TreeSet[K]) Min() (k K, ok bool) {
	it := s.tree.Min()
	if it.IsEnd() {
		return k, false
	}
	return it.Value(), true
}

// Max returns the largest element. ok is false when empty.
func (s *TreeSet[K]) Max() (k K, ok bool) {
	it := s.tree.Max()
	if it.IsEnd() {
		return k, false
	}
	return it.Value(), true
}

// Each calls fn for every element in ascending order until fn returns
// false.
func (s *TreeSet[K]) Each(fn func(K) bool) {
	for it := s.tree.Begin(); !it.IsEnd(); it = it.Next() {
		if !fn(it.Value()) {
			return
		}
	}
}

// MultiTreeSet is an ordered set admitting duplicate elements.
type MultiTreeSet[K any] struct {
	tree *rbtree.Tree[K, K]
}

func NewMultiTreeSet[K constraints.Ordered]() *MultiTreeSet[K] {
	return NewMultiTreeSetLess(rbtree.OrderedLess[K])
}

func NewMultiTreeSetLess[K any](less func(K, K) bool) *MultiTreeSet[K] {
	return &MultiTreeSet[K]{tree: rbtree.New(identity[K], less)}
}

func (s *MultiTreeSet[K]) Len() int    { return s.tree.Len() }
func (s *MultiTreeSet[K]) Empty() bool { return s.tree.Empty() }
func (s *MultiTreeSet[K]) Clear()      { s.tree.Clear() }

// Add inserts k regardless of existing copies.
func (s *MultiTreeSet[K]) Add(k K) error {
	_, err := s.tree.InsertEqual(k)
	return err
}

func (s *MultiTreeSet[K]) Count(k K) int {
	return s.tree.Count(k)
}

// Delete removes every copy of k and returns how many were removed.
func (s *MultiTreeSet[K]) Delete(k K) int {
	return s.tree.EraseKey(k)
}

// Each calls fn for every element in ascending order until fn returns
// false.
func (s *MultiTreeSet[K]) Each(fn func(K) bool) {
	for it := s.tree.Begin(); !it.IsEnd(); it = it.Next() {
		if !fn(it.Value()) {
			return
		}
	}
}
