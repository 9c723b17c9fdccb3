// Package rbtree implements a red-black binary search tree keyed by a
// projection function over the stored values.
//
// # Overview
//
// The tree is the ordered-container substrate: map-like containers store
// key/value pairs and project the key out of the pair, set-like containers
// store keys directly and project the identity. Both duplicate-rejecting
// (InsertUnique) and duplicate-permitting (InsertEqual) insertion are
// supported, along with ordered bidirectional iteration, lower/upper bound
// queries and erasure by iterator or key.
//
// Nodes live in a typed arena (see coll/arena): child and parent links are
// uint32 slot indices, index 0 is the nil link, and the end iterator is the
// zero index. The cached minimum and maximum make Begin and Max O(1) and
// let Prev of End land on the maximum element.
//
// # Invariants
//
// After every mutating operation:
//
//   - the root is black
//   - no red node has a red child
//   - every path from a node to a descendant nil crosses the same number of
//     black nodes
//   - in-order traversal yields keys in non-decreasing order
//   - the cached min and max reference the leftmost and rightmost nodes
//
// Validate checks all of them and is used heavily by the tests; production
// code never needs it.
//
// Trees are not safe for concurrent use.
package rbtree
