package containers

import "errors"

// ErrKeyNotFound is returned by At when the key is absent.
var ErrKeyNotFound = errors.New("containers: key not found")

// Pair is the stored element of the map containers.
type Pair[K, V any] struct {
	Key   K
	Value V
}

func pairKey[K, V any](p Pair[K, V]) K { return p.Key }

func identity[K any](k K) K { return k }
