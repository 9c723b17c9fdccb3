package containers

import (
	"golang.org/x/exp/constraints"

	"github.com/collkit/collkit/coll/rbtree"
)

// TreeMap is an ordered map with unique keys.
type TreeMap[K, V any] struct {
	tree *rbtree.Tree[Pair[K, V], K]
	less func(K, K) bool
}

// NewTreeMap creates an ordered map over a naturally ordered key type.
func NewTreeMap[K constraints.Ordered, V any]() *TreeMap[K, V] {
	return NewTreeMapLess[K, V](rbtree.OrderedLess[K])
}

// NewTreeMapLess creates an ordered map with a caller-supplied strict
// weak ordering on keys.
func NewTreeMapLess[K, V any](less func(K, K) bool) *TreeMap[K, V] {
	return &TreeMap[K, V]{tree: rbtree.New(pairKey[K, V], less), less: less}
}

func (m *TreeMap[K, V]) Len() int    { return m.tree.Len() }
func (m *TreeMap[K, V]) Empty() bool { return m.tree.Empty() }
func (m *TreeMap[K, V]) Clear()      { m.tree.Clear() }

// Set maps k to v, replacing any existing mapping.
func (m *TreeMap[K, V]) Set(k K, v V) error {
	if it := m.tree.Find(k); !it.IsEnd() {
		if _, err := m.tree.Erase(it); err != nil {
			return err
		}
	}
	_, _, err := m.tree.InsertUnique(Pair[K, V]{Key: k, Value: v})
	return err
}

// Insert maps k to v only if k is absent. Reports whether the mapping
// was added.
func (m *TreeMap[K, V]) Insert(k K, v V) (bool, error) {
	_, ok, err := m.tree.InsertUnique(Pair[K, V]{Key: k, Value: v})
	return ok, err
}

// At returns the value mapped to k, or ErrKeyNotFound.
func (m *TreeMap[K, V]) At(k K) (V, error) {
	it := m.tree.Find(k)
	if it.IsEnd() {
		var zero V
		return zero, ErrKeyNotFound
	}
	return it.Value().Value, nil
}

// Get returns the value mapped to k and whether it was present.
func (m *TreeMap[K, V]) Get(k K) (V, bool) {
	v, err := m.At(k)
	return v, err == nil
}

func (m *TreeMap[K, V]) Has(k K) bool {
	return !m.tree.Find(k).IsEnd()
}

// Delete removes the mapping for k and reports whether one existed.
func (m *TreeMap[K, V]) Delete(k K) bool {
	return m.tree.EraseKey(k) > 0
}

// Min returns the smallest key and its value. ok is false when empty.
func (m *TreeMap[K, V]) Min() (k K, v V, ok bool) {
	it := m.tree.Min()
	if it.IsEnd() {
		return k, v, false
	}
	p := it.Value()
	return p.Key, p.Value, true
}

// Max returns the largest key and its value. ok is false when empty.
func (m *TreeMap[K, V]) Max() (k K, v V, ok bool) {
	it := m.tree.Max()
	if it.IsEnd() {
		return k, v, false
	}
	p := it.Value()
	return p.Key, p.Value, true
}

// Each calls fn for every mapping in ascending key order until fn
// returns false.
func (m *TreeMap[K, V]) Each(fn func(K, V) bool) {
	for it := m.tree.Begin(); !it.IsEnd(); it = it.Next() {
		p := it.Value()
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// EachRange calls fn for every mapping with lo <= key < hi in ascending
// order until fn returns false. An empty range (hi <= lo) visits nothing.
func (m *TreeMap[K, V]) EachRange(lo, hi K, fn func(K, V) bool) {
	if !m.less(lo, hi) {
		return
	}
	end := m.tree.LowerBound(hi)
	for it := m.tree.LowerBound(lo); !it.Equal(end); it = it.Next() {
		p := it.Value()
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// MultiTreeMap is an ordered map admitting duplicate keys.
type MultiTreeMap[K, V any] struct {
	tree *rbtree.Tree[Pair[K, V], K]
}

func NewMultiTreeMap[K constraints.Ordered, V any]() *MultiTreeMap[K, V] {
	return NewMultiTreeMapLess[K, V](rbtree.OrderedLess[K])
}

func NewMultiTreeMapLess[K, V any](less func(K, K) bool) *MultiTreeMap[K, V] {
	return &MultiTreeMap[K, V]{tree: rbtree.New(pairKey[K, V], less)}
}

func (m *MultiTreeMap[K, V]) Len() int    { return m.tree.Len() }
func (m *MultiTreeMap[K, V]) Empty() bool { return m.tree.Empty() }
func (m *MultiTreeMap[K, V]) Clear()      { m.tree.Clear() }

// Insert adds a mapping for k regardless of existing ones.
func (m *MultiTreeMap[K, V]) Insert(k K, v V) error {
	_, err := m.tree.InsertEqual(Pair[K, V]{Key: k, Value: v})
	return err
}

// Get returns every value mapped to k, in insertion order.
func (m *MultiTreeMap[K, V]) Get(k K) []V {
	var out []V
	lo, hi := m.tree.EqualRange(k)
	for it := lo; !it.Equal(hi); it = it.Next() {
		out = append(out, it.Value().Value)
	}
	return out
}

func (m *MultiTreeMap[K, V]) Count(k K) int {
	return m.tree.Count(k)
}

// Delete removes every mapping for k and returns how many were removed.
func (m *MultiTreeMap[K, V]) Delete(k K) int {
	return m.tree.EraseKey(k)
}

// Each calls fn for every mapping in ascending key order until fn
// returns false. Equal keys are visited in insertion order.
func (m *MultiTreeMap[K, V]) Each(fn func(K, V) bool) {
	for it := m.tree.Begin(); !it.IsEnd(); it = it.Next() {
		p := it.Value()
		if !fn(p.Key, p.Value) {
			return
		}
	}
}
