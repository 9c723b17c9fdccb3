// Package containers provides map and set views over the rbtree and
// hashtable packages.
//
// # Overview
//
// Each container is a thin wrapper that supplies the key projection and
// delegates every operation: sets store their element as its own key,
// maps store Pair values keyed by the first component. Ordered variants
// sit on a red-black tree and iterate in key order; unordered variants
// sit on a chained hash table and iterate in no particular order.
//
// Containers are not safe for concurrent use.
package containers
