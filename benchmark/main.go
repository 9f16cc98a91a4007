// Package main provides a performance benchmarking tool for the topsis CLI.
// It generates decision matrices of increasing size, ranks each one several
// times without and with the result cache, treating the first cached run as
// cold and averaging the rest as warm, and writes CSV output for analysis.
//
// Prerequisites:
// - topsis binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated matrices and the benchmark cache database
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Matrix      string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// MatrixSize is the shape of one generated decision matrix.
type MatrixSize struct {
	Name         string
	Alternatives int
	Criteria     int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Seed        uint64
	Sizes       []MatrixSize
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Seed:        42,
		Sizes: []MatrixSize{
			{Name: "small", Alternatives: 100, Criteria: 5},
			{Name: "medium", Alternatives: 10_000, Criteria: 10},
			{Name: "large", Alternatives: 100_000, Criteria: 20},
			{Name: "wide", Alternatives: 1_000, Criteria: 200},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Each benchmark starts with an empty cache
	cacheDB := filepath.Join(config.WorkDir, "benchmark_cache.db")
	_ = os.Remove(cacheDB)

	results := runBenchmarks(config, cacheDB)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the topsis binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("topsis"); err != nil {
		return fmt.Errorf("topsis binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateMatrix writes a random decision matrix and returns its path with
// matching weights and impacts arguments.
func generateMatrix(dir string, size MatrixSize, rng *rand.Rand) (path, weights, impacts string, err error) {
	path = filepath.Join(dir, size.Name+".csv")
	file, err := os.Create(path)
	if err != nil {
		return "", "", "", err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	header := make([]string, size.Criteria+1)
	header[0] = "Alternative"
	w := make([]string, size.Criteria)
	imp := make([]string, size.Criteria)
	for j := range size.Criteria {
		header[j+1] = fmt.Sprintf("C%d", j+1)
		w[j] = strconv.Itoa(1 + rng.IntN(5))
		imp[j] = "+"
		if rng.IntN(2) == 0 {
			imp[j] = "-"
		}
	}
	if err := writer.Write(header); err != nil {
		return "", "", "", err
	}

	record := make([]string, size.Criteria+1)
	for i := range size.Alternatives {
		record[0] = fmt.Sprintf("alt-%d", i+1)
		for j := range size.Criteria {
			record[j+1] = strconv.FormatFloat(1+rng.Float64()*999, 'f', 2, 64)
		}
		if err := writer.Write(record); err != nil {
			return "", "", "", err
		}
	}
	writer.Flush()
	return path, strings.Join(w, ","), strings.Join(imp, ","), writer.Error()
}

// runBenchmarks executes the benchmark suite for every configured matrix size
func runBenchmarks(config BenchmarkConfig, cacheDB string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d matrices, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	rng := rand.New(rand.NewPCG(config.Seed, config.Seed))
	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %s (%d x %d)\n", size.Name, size.Alternatives, size.Criteria)
		path, weights, impacts, err := generateMatrix(config.WorkDir, size, rng)
		if err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", size.Name, err)
			continue
		}
		args := []string{"rank", path, "--weights", weights, "--impacts", impacts,
			"--output", "csv", "--output-file", filepath.Join(config.WorkDir, size.Name+".out.csv")}
		results = append(results, runBenchmarkSuite(config, size.Name, args, cacheDB))
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a matrix
func runBenchmarkSuite(config BenchmarkConfig, name string, args []string, cacheDB string) BenchmarkResult {
	// Helper to run a benchmark phase
	runPhase := func(backendArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, append(args, backendArgs...), numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase([]string{"--cache-backend", "none"}, config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase([]string{"--cache-backend", "sqlite", "--cache-db-connect", cacheDB}, config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Matrix:      name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a topsis command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("topsis", args...)

		done := make(chan bool)
		var cmdErr error

		go func() {
			_, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("topsis_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"matrix", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Matrix, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Matrix, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}
