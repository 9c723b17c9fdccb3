package containers

import "github.com/collkit/collkit/coll/hashtable"

// HashSet is an unordered set with unique elements.
type HashSet[K comparable] struct {
	table *hashtable.Table[K, K]
}

// NewHashSet creates an unordered set using the given hasher.
func NewHashSet[K comparable](hash func(K) uint64) *HashSet[K] {
	return &HashSet[K]{
		table: hashtable.New(identity[K], hash, hashtable.EqualOf[K]),
	}
}

func (s *HashSet[K]) Len() int    { return s.table.Len() }
func (s *HashSet[K]) Empty() bool { return s.table.Empty() }
func (s *HashSet[K]) Clear()      { s.table.Clear() }

// Add inserts k and reports whether it was absent.
func (s *HashSet[K]) Add(k K) (bool, error) {
	_, ok, err := s.table.InsertUnique(k)
	return ok, err
}

func (s *HashSet[K]) Has(k K) bool {
	return !s.table.Find(k).IsEnd()
}

// Delete removes k and reports whether it was present.
func (s *HashSet[K]) Delete(k K) bool {
	return s.table.EraseKey(k) > 0
}

// Each calls fn for every element, in no particular order, until fn
// returns false.
func (s *HashSet[K]) Each(fn func(K) bool) {
	for it := s.table.Begin(); !it.IsEnd(); it = it.Next() {
		if !fn(it.Value()) {
			return
		}
	}
}
