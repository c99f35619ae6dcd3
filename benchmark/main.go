// Package main measures how long gitpick takes to gather candidates from real repositories.
// Each source runs several times per cache backend. With the sqlite backend the first
// run fills the tree cache (cold) and the rest reuse it (warm). Results go to a CSV file.
//
// Prerequisites:
// - gitpick binary installed and available in PATH
// - Test repositories cloned to the specified base directory
//
// Usage: go run benchmark/main.go [repo-base-dir]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one source on one repository.
type BenchmarkResult struct {
	Repository  string
	Source      string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	Sources     [][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"fd", "git", "kubernetes"},
		Sources: [][]string{
			{"files"},
			{"branch"},
			{"status"},
			{"log", "all", "--limit", "500"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command("gitpick", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)
	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// checkPrerequisites verifies that gitpick and the test repositories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("gitpick"); err != nil {
		return errors.New("gitpick binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// runBenchmarks runs every source on every repository.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult
	fmt.Printf("Starting benchmark: %d repos, %d sources, %v timeout\n",
		len(config.TestRepos), len(config.Sources), config.Timeout)

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, args := range config.Sources {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, args))
		}
	}
	return results
}

// runBenchmarkSuite times one source without a cache and then with sqlite.
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath string, args []string) BenchmarkResult {
	source := strings.Join(args, " ")
	fmt.Printf("Running %s on %s\n", source, repo)

	_, noCache := runBenchmark(config, repoPath, args, "none", config.NoCacheRuns)
	cold, warm := runBenchmark(config, repoPath, args, "sqlite", config.CacheRuns)

	result := BenchmarkResult{
		Repository:  repo,
		Source:      source,
		NoCacheTime: average(noCache),
		ColdTime:    "TIMEOUT",
		WarmTime:    average(warm),
	}
	if cold > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", cold)
	}
	fmt.Printf("  No-cache: %s, Cold: %s, Warm: %s\n", result.NoCacheTime, result.ColdTime, result.WarmTime)
	return result
}

// runBenchmark runs gitpick numRuns times. The first successful run is the cold one.
func runBenchmark(config BenchmarkConfig, repoPath string, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args = append(append([]string{}, args...), "--cache-backend", cacheBackend, "--journal", "no", "--color", "no")

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		cmd := exec.CommandContext(ctx, "gitpick", args...)
		cmd.Dir = repoPath

		start := time.Now()
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start)
		cancel()

		if err == nil && strings.Contains(string(output), "Gathered in") {
			times = append(times, elapsed.Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	filename := fmt.Sprintf("/tmp/gitpick_benchmark_%s.csv", time.Now().Format("20060102_150405"))

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

	if err := writer.Write([]string{"repo", "source", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Repository, r.Source, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-12s %-24s No-cache: %s, Cold: %s, Warm: %s\n", r.Repository, r.Source, r.NoCacheTime, r.ColdTime, r.WarmTime)
	}
}
