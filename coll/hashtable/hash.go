package hashtable

import "golang.org/x/exp/constraints"

// FNV-1a constants for 64-bit hashing.
const (
	fnvBasis64 uint64 = 14695981039346656037
	fnvPrime64 uint64 = 1099511628211
)

// HashString hashes a string with 64-bit FNV-1a.
func HashString(s string) uint64 {
	h := fnvBasis64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

// HashBytes hashes a byte slice with 64-bit FNV-1a.
func HashBytes(b []byte) uint64 {
	h := fnvBasis64
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// HashUint64 mixes an integer with the splitmix64 finalizer. Sequential
// keys spread across buckets instead of clustering in sequential slots.
func HashUint64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// HashInteger hashes any integer key via HashUint64.
func HashInteger[K constraints.Integer](k K) uint64 {
	return HashUint64(uint64(k))
}

// EqualOf is the natural equality for comparable key types.
func EqualOf[K comparable](a, b K) bool {
	return a == b
}
