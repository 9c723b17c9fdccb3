package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/collkit/collkit/coll/hashtable"
)

type tableResult struct {
	Inserts    int
	Lookups    int
	Erases     int
	Elapsed    string
	FinalLen   int
	Buckets    int
	LoadFactor float64
	Stats      hashtable.Stats
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Drive the hash table with a mixed insert/find/erase workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		tb := hashtable.New(
			func(v int) int { return v },
			hashtable.HashInteger[int],
			hashtable.EqualOf[int],
		)
		rng := rand.New(rand.NewSource(seed))
		keyspace := count / 2

		var r tableResult
		start := time.Now()
		for i := 0; i < count; i++ {
			k := rng.Intn(keyspace)
			switch rng.Intn(4) {
			case 0, 1:
				if _, _, err := tb.InsertUnique(k); err != nil {
					return fmt.Errorf("insert %d: %w", k, err)
				}
				r.Inserts++
			case 2:
				tb.Find(k)
				r.Lookups++
			default:
				tb.EraseKey(k)
				r.Erases++
			}
		}
		r.Elapsed = time.Since(start).String()
		r.FinalLen = tb.Len()
		r.Buckets = tb.BucketCount()
		r.LoadFactor = tb.LoadFactor()
		r.Stats = tb.Stats()

		if err := tb.Validate(); err != nil {
			return fmt.Errorf("table invariants violated after workload: %w", err)
		}
		return report(r, func() {
			fmt.Printf("table: %d inserts, %d lookups, %d erases in %s\n",
				r.Inserts, r.Lookups, r.Erases, r.Elapsed)
			fmt.Printf("  final size:  %d in %d buckets (load %.2f)\n",
				r.FinalLen, r.Buckets, r.LoadFactor)
			fmt.Printf("  rehashes:    %d (%d nodes moved)\n",
				r.Stats.Rehashes, r.Stats.NodesMoved)
		})
	},
}
