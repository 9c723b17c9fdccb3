package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	count   int
	seed    int64
	jsonOut bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "collbench",
	Short: "Run container and allocator workloads and report statistics",
	Long: `collbench drives the collkit pool allocator, red-black tree, and
hash table with seeded synthetic workloads and prints the internal
statistics each component collects, for eyeballing allocation behavior
and for regression comparison across changes.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&count, "count", "n", 100000, "Number of workload operations")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "Workload random seed")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")

	rootCmd.AddCommand(poolCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(tableCmd)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// report prints r as JSON with --json, otherwise via the text printer.
func report(r any, text func()) error {
	if quiet {
		return nil
	}
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	text()
	return nil
}
