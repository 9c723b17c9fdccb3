package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/collkit/collkit/coll/arena"
	"github.com/collkit/collkit/coll/rbtree"
)

type treeResult struct {
	Inserts  int
	Lookups  int
	Erases   int
	Elapsed  string
	FinalLen int
	Arena    arena.Stats
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Drive the red-black tree with a mixed insert/find/erase workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		tr := rbtree.New(func(v int) int { return v }, rbtree.OrderedLess[int])
		rng := rand.New(rand.NewSource(seed))
		keyspace := count / 2

		var r treeResult
		start := time.Now()
		for i := 0; i < count; i++ {
			k := rng.Intn(keyspace)
			switch rng.Intn(4) {
			case 0, 1:
				if _, _, err := tr.InsertUnique(k); err != nil {
					return fmt.Errorf("insert %d: %w", k, err)
				}
				r.Inserts++
			case 2:
				tr.Find(k)
				r.Lookups++
			default:
				tr.EraseKey(k)
				r.Erases++
			}
		}
		r.Elapsed = time.Since(start).String()
		r.FinalLen = tr.Len()
		r.Arena = tr.ArenaStats()

		if err := tr.Validate(); err != nil {
			return fmt.Errorf("tree invariants violated after workload: %w", err)
		}
		return report(r, func() {
			fmt.Printf("tree: %d inserts, %d lookups, %d erases in %s\n",
				r.Inserts, r.Lookups, r.Erases, r.Elapsed)
			fmt.Printf("  final size:  %d\n", r.FinalLen)
			fmt.Printf("  arena slots: %d live / %d total (%d batches)\n",
				r.Arena.LiveSlots, r.Arena.TotalSlots, r.Arena.Batches)
		})
	},
}
