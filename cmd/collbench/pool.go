package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/collkit/collkit/coll/pool"
)

var useMmap bool

func init() {
	poolCmd.Flags().BoolVar(&useMmap, "mmap", false, "Back the pool with an mmap raw allocator")
}

type poolResult struct {
	Ops            int
	Elapsed        string
	NsPerOp        float64
	TotalHeapBytes uint64
	PoolRemaining  int
	Stats          pool.Stats
}

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Churn the pool allocator with mixed-size alloc/free cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &pool.Config{}
		if useMmap {
			cfg.Raw = pool.NewMmapRaw()
		}
		a := pool.New(cfg)
		rng := rand.New(rand.NewSource(seed))

		// Keep a sliding window of live blocks so free lists see reuse.
		type block struct {
			buf  []byte
			size int
		}
		live := make([]block, 0, 1024)

		start := time.Now()
		for i := 0; i < count; i++ {
			size := 8 * (1 + rng.Intn(16))
			buf, err := a.Allocate(size)
			if err != nil {
				return fmt.Errorf("allocate %d bytes: %w", size, err)
			}
			live = append(live, block{buf, size})
			if len(live) == cap(live) {
				victim := rng.Intn(len(live))
				b := live[victim]
				if err := a.Deallocate(b.buf, b.size); err != nil {
					return fmt.Errorf("deallocate %d bytes: %w", b.size, err)
				}
				live[victim] = live[len(live)-1]
				live = live[:len(live)-1]
			}
		}
		elapsed := time.Since(start)

		r := poolResult{
			Ops:            count,
			Elapsed:        elapsed.String(),
			NsPerOp:        float64(elapsed.Nanoseconds()) / float64(count),
			TotalHeapBytes: a.TotalHeapBytes(),
			PoolRemaining:  a.PoolRemaining(),
			Stats:          a.Stats(),
		}
		return report(r, func() {
			fmt.Printf("pool: %d ops in %s (%.1f ns/op)\n", r.Ops, r.Elapsed, r.NsPerOp)
			fmt.Printf("  heap bytes:     %d\n", r.TotalHeapBytes)
			fmt.Printf("  pool remaining: %d\n", r.PoolRemaining)
			fmt.Printf("  raw calls:      %d (%d bytes)\n", r.Stats.RawCalls, r.Stats.RawBytes)
			fmt.Printf("  refills:        %d\n", r.Stats.Refills)
			fmt.Printf("  spills:         %d\n", r.Stats.PoolSpills)
			fmt.Printf("  scavenges:      %d\n", r.Stats.Scavenges)
		})
	},
}
