package hashtable

import "fmt"

// Validate checks the table's structural invariants: every node reachable
// from buckets[i] hashes to i under the current bucket count, chains are
// acyclic, and the element count matches the chains. It is meant for
// tests; a non-nil error indicates a bug in this package.
func (t *Table[T, K]) Validate() error {
	seen := 0
	for b := range t.buckets {
		steps := 0
		for idx := t.buckets[b]; idx != 0; idx = t.n(idx).next {
			if got := t.bucketFor(t.key(idx)); got != b {
				return fmt.Errorf("hashtable: node %d in bucket %d hashes to %d", idx, b, got)
			}
			seen++
			steps++
			if steps > t.count {
				return fmt.Errorf("hashtable: cycle in bucket %d", b)
			}
		}
	}
	if seen != t.count {
		return fmt.Errorf("hashtable: count %d, chains hold %d", t.count, seen)
	}
	return nil
}
