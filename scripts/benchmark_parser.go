// Command benchmark_parser turns `go test -bench` output into a markdown
// report, and when given a baseline run, a before/after comparison table.
//
// Usage:
//
//	go test -bench=. -benchmem ./... > new.txt
//	go run scripts/benchmark_parser.go -input new.txt -baseline old.txt -output report.md
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents one parsed benchmark line.
type BenchmarkResult struct {
	Name        string
	Package     string
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// ComparisonResult pairs a current result with its baseline.
type ComparisonResult struct {
	Name        string
	Package     string
	OldNs       float64
	NewNs       float64
	Speedup     float64
	OldAllocs   int64
	NewAllocs   int64
	CurrentOnly bool
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Current benchmark output (stdin if not specified)",
	)
	baselineFile = flag.String("baseline", "", "Baseline benchmark output to compare against")
	outputFile   = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet        = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	current, err := parseFile(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(current))
	}

	var baseline []BenchmarkResult
	if *baselineFile != "" {
		baseline, err = parseFile(*baselineFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading baseline: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Parsed %d baseline results\n", len(baseline))
		}
	}

	report := generateMarkdownReport(current, generateComparisons(current, baseline))

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(report), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}
}

func parseFile(path string) ([]BenchmarkResult, error) {
	if path == "" {
		return parseBenchmarks(bufio.NewScanner(os.Stdin)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseBenchmarks(bufio.NewScanner(f)), nil
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// Benchmark_Find-8    10000    124.5 ns/op    64 B/op    2 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)
	// pkg: github.com/collkit/collkit/coll/rbtree
	pkgRegex := regexp.MustCompile(`^pkg:\s+(\S+)`)

	pkg := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := pkgRegex.FindStringSubmatch(line); m != nil {
			pkg = m[1]
			continue
		}

		matches := benchmarkRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		name := matches[1]
		// Strip the -N GOMAXPROCS suffix.
		if idx := strings.LastIndex(name, "-"); idx > 0 {
			if _, err := strconv.Atoi(name[idx+1:]); err == nil {
				name = name[:idx]
			}
		}

		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var bytesPerOp, allocsPerOp int64
		if matches[4] != "" {
			v, _ := strconv.ParseFloat(matches[4], 64)
			bytesPerOp = int64(v)
		}
		if matches[5] != "" {
			v, _ := strconv.ParseFloat(matches[5], 64)
			allocsPerOp = int64(v)
		}

		results = append(results, BenchmarkResult{
			Name:        name,
			Package:     shortPackage(pkg),
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}
	return results
}

func shortPackage(pkg string) string {
	if idx := strings.LastIndex(pkg, "/"); idx >= 0 {
		return pkg[idx+1:]
	}
	return pkg
}

func generateComparisons(current, baseline []BenchmarkResult) []ComparisonResult {
	if len(baseline) == 0 {
		return nil
	}

	old := make(map[string]BenchmarkResult, len(baseline))
	for _, r := range baseline {
		old[r.Package+"/"+r.Name] = r
	}

	var comparisons []ComparisonResult
	for _, r := range current {
		c := ComparisonResult{
			Name:      r.Name,
			Package:   r.Package,
			NewNs:     r.NsPerOp,
			NewAllocs: r.AllocsPerOp,
		}
		if prev, ok := old[r.Package+"/"+r.Name]; ok {
			c.OldNs = prev.NsPerOp
			c.OldAllocs = prev.AllocsPerOp
			if r.NsPerOp > 0 {
				c.Speedup = prev.NsPerOp / r.NsPerOp
			}
		} else {
			c.CurrentOnly = true
		}
		comparisons = append(comparisons, c)
	}

	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].Package != comparisons[j].Package {
			return comparisons[i].Package < comparisons[j].Package
		}
		return comparisons[i].Name < comparisons[j].Name
	})
	return comparisons
}

func generateMarkdownReport(current []BenchmarkResult, comparisons []ComparisonResult) string {
	var b strings.Builder

	b.WriteString("# Benchmark Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC3339)))

	if len(comparisons) > 0 {
		b.WriteString("## Comparison vs Baseline\n\n")
		b.WriteString("| Package | Benchmark | Baseline ns/op | Current ns/op | Speedup | Allocs (old/new) |\n")
		b.WriteString("|---------|-----------|---------------:|--------------:|--------:|------------------|\n")
		for _, c := range comparisons {
			if c.CurrentOnly {
				b.WriteString(fmt.Sprintf("| %s | %s | - | %.1f | new | -/%d |\n",
					c.Package, c.Name, c.NewNs, c.NewAllocs))
				continue
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %.1f | %.1f | %.2fx | %d/%d |\n",
				c.Package, c.Name, c.OldNs, c.NewNs, c.Speedup, c.OldAllocs, c.NewAllocs))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Current Run\n\n")
	b.WriteString("| Package | Benchmark | Iterations | ns/op | B/op | allocs/op |\n")
	b.WriteString("|---------|-----------|-----------:|------:|-----:|----------:|\n")

	sorted := make([]BenchmarkResult, len(current))
	copy(sorted, current)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Package != sorted[j].Package {
			return sorted[i].Package < sorted[j].Package
		}
		return sorted[i].Name < sorted[j].Name
	})
	for _, r := range sorted {
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %.1f | %d | %d |\n",
			r.Package, r.Name, r.Iterations, r.NsPerOp, r.BytesPerOp, r.AllocsPerOp))
	}
	return b.String()
}
