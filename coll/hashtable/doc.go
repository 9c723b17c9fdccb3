// Package hashtable implements a chained hash table keyed by a projection
// function over the stored values.
//
// # Overview
//
// The table is the unordered-container substrate. Buckets form a slice of
// chain heads sized to a prime from internal/primes; nodes live in a typed
// arena (see coll/arena) and chain through uint32 slot indices. Both
// duplicate-rejecting (InsertUnique) and duplicate-permitting (InsertEqual)
// insertion are supported; equal keys are kept contiguous within their
// bucket so Count and EqualRange are simple forward scans.
//
// # Growth
//
// Every insert first checks load: when the element count would exceed the
// bucket count, the table rehashes into the next prime bucket count
// (roughly doubling), moving - not copying - every node into its
// recomputed chain. The check runs before the duplicate probe, so an
// insert of an already-present key at the boundary still triggers the
// rehash; this mirrors the reference behavior and is part of the contract.
//
// # Iteration
//
// Iteration is forward-only and its order is unspecified. Any insert that
// triggers a rehash invalidates all iterators; Erase invalidates iterators
// to the erased element only.
//
// Tables are not safe for concurrent use.
package hashtable
