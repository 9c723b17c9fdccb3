package containers

import "github.com/collkit/collkit/coll/hashtable"

// HashMap is an unordered map with unique keys.
type HashMap[K comparable, V any] struct {
	table *hashtable.Table[Pair[K, V], K]
}

// NewHashMap creates an unordered map using the given key hasher.
func NewHashMap[K comparable, V any](hash func(K) uint64) *HashMap[K, V] {
	return &HashMap[K, V]{
		table: hashtable.New(pairKey[K, V], hash, hashtable.EqualOf[K]),
	}
}

func (m *HashMap[K, V]) Len() int    { return m.table.Len() }
func (m *HashMap[K, V]) Empty() bool { return m.table.Empty() }
func (m *HashMap[K, V]) Clear()      { m.table.Clear() }

// Set maps k to v, replacing any existing mapping.
func (m *HashMap[K, V]) Set(k K, v V) error {
	if it := m.table.Find(k); !it.IsEnd() {
		if err := m.table.Erase(it); err != nil {
			return err
		}
	}
	_, _, err := m.table.InsertUnique(Pair[K, V]{Key: k, Value: v})
	return err
}

// Insert maps k to v only if k is absent. Reports whether the mapping
// was added.
func (m *HashMap[K, V]) Insert(k K, v V) (bool, error) {
	_, ok, err := m.table.InsertUnique(Pair[K, V]{Key: k, Value: v})
	return ok, err
}

// At returns the value mapped to k, or ErrKeyNotFound.
func (m *HashMap[K, V]) At(k K) (V, error) {
	it := m.table.Find(k)
	if it.IsEnd() {
		var zero V
		return zero, ErrKeyNotFound
	}
	return it.Value().Value, nil
}

// Get returns the value mapped to k and whether it was present.
func (m *HashMap[K, V]) Get(k K) (V, bool) {
	v, err := m.At(k)
	return v, err == nil
}

func (m *HashMap[K, V]) Has(k K) bool {
	return !m.table.Find(k).IsEnd()
}

// Delete removes the mapping for k and reports whether one existed.
func (m *HashMap[K, V]) Delete(k K) bool {
	return m.table.EraseKey(k) > 0
}

// Each calls fn for every mapping, in no particular order, until fn
// returns false.
func (m *HashMap[K, V]) Each(fn func(K, V) bool) {
	for it := m.table.Begin(); !it.IsEnd(); it = it.Next() {
		p := it.Value()
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Reserve grows the bucket array to hold at least n mappings without
// rehashing.
func (m *HashMap[K, V]) Reserve(n int) { m.table.Resize(n) }
