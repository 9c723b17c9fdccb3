// Package primes provides the prime bucket-count progression used by the
// hash table.
//
// The table holds 28 primes spanning 53 to 4294967291, chosen so each entry
// is roughly double the previous one while staying prime. Prime bucket counts
// reduce clustering from common hash patterns (e.g. pointer-aligned or
// stride-heavy key sets), and the doubling progression keeps the total number
// of rehashes over a table's lifetime logarithmic in its final size.
package primes

// table is ordered ascending; NextPrime binary-searches it.
var table = [28]uint64{
	53, 97, 193, 389, 769,
	1543, 3079, 6151, 12289, 24593,
	49157, 98317, 196613, 393241, 786433,
	1572869, 3145739, 6291469, 12582917, 25165843,
	50331653, 100663319, 201326611, 402653189, 805306457,
	1610612741, 3221225473, 4294967291,
}

// Min is the smallest bucket count the progression produces.
const Min = 53

// Max is the largest bucket count the progression produces.
const Max = 4294967291

// NextPrime returns the first table entry >= n, or Max if n exceeds every
// entry. Callers treat Max as a hard ceiling: a table already at Max buckets
// never grows again.
func NextPrime(n uint64) uint64 {
	lo, hi := 0, len(table)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if table[mid] >= n {
			if mid == 0 || table[mid-1] < n {
				return table[mid]
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return Max
}

// Count returns the number of entries in the progression.
func Count() int {
	return len(table)
}

// At returns the i-th prime in the progression.
func At(i int) uint64 {
	return table[i]
}
