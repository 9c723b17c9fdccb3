// Package testutil provides seeded randomness and key-set generators
// shared by the container test suites.
package testutil

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
)

// NewRand returns a deterministic source seeded with fallback, or with
// the COLL_TEST_SEED environment variable when set. The seed in use is
// logged so a failing run can be reproduced.
func NewRand(t *testing.T, fallback int64) *rand.Rand {
	t.Helper()

	seed := fallback
	if s := os.Getenv("COLL_TEST_SEED"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			t.Fatalf("bad COLL_TEST_SEED %q: %v", s, err)
		}
		seed = v
	}
	t.Logf("seed=%d", seed)
	return rand.New(rand.NewSource(seed))
}

// ShuffledInts returns 0..n-1 in random order.
func ShuffledInts(rng *rand.Rand, n int) []int {
	return rng.Perm(n)
}

// RandomWords returns n lowercase words of 1..maxLen letters. Words may
// repeat.
func RandomWords(rng *rand.Rand, n, maxLen int) []string {
	words := make([]string, n)
	for i := range words {
		b := make([]byte, 1+rng.Intn(maxLen))
		for j := range b {
			b[j] = byte('a' + rng.Intn(26))
		}
		words[i] = string(b)
	}
	return words
}
