// Package main provides a performance benchmarking tool for the newslog CLI.
// It generates synthetic news databases of different sizes, runs the report
// against each one several times per worker count, treating the first
// successful run as cold and averaging the rest as warm, and writes the
// timings to a CSV file.
//
// Prerequisites:
// - newslog binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the generated SQLite databases are kept
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/newslog/internal/iostore"
	"github.com/huangsam/newslog/schema"
	_ "modernc.org/sqlite"
)

// BenchmarkResult holds the timings of one dataset and worker count.
type BenchmarkResult struct {
	Dataset  string
	Workers  int
	Rows     int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Workers  []int
	Datasets map[string]int // dataset name -> number of log rows
	Order    []string
}

// datasetShape controls how synthetic data is generated.
const (
	benchAuthors  = 25
	benchArticles = 400
	benchDays     = 31
	progressEvery = 50_000
)

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Runs:    4,
		Workers: []int{1, 4, 14},
		Datasets: map[string]int{
			"small":  10_000,
			"medium": 250_000,
			"large":  1_500_000,
		},
		Order: []string{"small", "medium", "large"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	for _, name := range config.Order {
		path := datasetPath(config, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Reusing dataset %s at %s\n", name, path)
			continue
		}
		fmt.Printf("Generating dataset %s (%d log rows)...\n", name, config.Datasets[name])
		if err := generateDataset(context.Background(), path, config.Datasets[name]); err != nil {
			fmt.Printf("Failed to generate dataset %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the newslog binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("newslog"); err != nil {
		return fmt.Errorf("newslog binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

func datasetPath(config BenchmarkConfig, name string) string {
	return filepath.Join(config.WorkDir, "newslog_bench_"+name+".db")
}

// generateDataset migrates a fresh SQLite source and fills it with random
// traffic. About one request in fifty is a 404 so some days cross the
// default threshold.
func generateDataset(ctx context.Context, path string, rows int) error {
	if _, err := iostore.MigrateSource(schema.SQLiteBackend, path, -1); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for id := 1; id <= benchAuthors; id++ {
		if _, err := tx.ExecContext(ctx, `INSERT INTO authors (id, name) VALUES (?, ?)`, id, fmt.Sprintf("Author %02d", id)); err != nil {
			return err
		}
	}
	for id := 1; id <= benchArticles; id++ {
		if _, err := tx.ExecContext(ctx, `INSERT INTO articles (author, title, slug) VALUES (?, ?, ?)`,
			1+id%benchAuthors, fmt.Sprintf("Article %03d", id), fmt.Sprintf("article-%03d", id)); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO log (path, method, status, time) VALUES (?, 'GET', ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	rng := rand.New(rand.NewPCG(42, uint64(rows)))
	start := time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC)
	span := int64(benchDays * 24 * time.Hour)
	for i := range rows {
		path, status := "/", "200 OK"
		switch r := rng.IntN(100); {
		case r < 2:
			path, status = "/article/missing-"+strconv.Itoa(rng.IntN(1000)), "404 NOT FOUND"
		case r < 90:
			// A skewed pick so the top articles are stable across sizes.
			n := 1 + int(float64(benchArticles)*rng.Float64()*rng.Float64())
			path = fmt.Sprintf("/article/article-%03d", n)
		}
		at := start.Add(time.Duration(rng.Int64N(span))).Format(time.DateTime)
		if _, err := stmt.ExecContext(ctx, path, status, at); err != nil {
			return err
		}
		if (i+1)%progressEvery == 0 {
			fmt.Printf("  %d rows\n", i+1)
		}
	}
	return tx.Commit()
}

// runBenchmarks executes the report for every dataset and worker count
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, workers %v, %d runs\n",
		len(config.Order), config.Timeout, config.Workers, config.Runs)

	for _, name := range config.Order {
		for _, workers := range config.Workers {
			fmt.Printf("Running report on %s with %d workers\n", name, workers)
			cold, warm := runBenchmark(config, datasetPath(config, name), workers)

			result := BenchmarkResult{
				Dataset:  name,
				Workers:  workers,
				Rows:     config.Datasets[name],
				ColdTime: formatSeconds(cold),
				WarmTime: "TIMEOUT",
			}
			if len(warm) > 0 {
				var sum float64
				for _, t := range warm {
					sum += t
				}
				result.WarmTime = formatSeconds(sum / float64(len(warm)))
			}
			fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
			results = append(results, result)
		}
	}
	return results
}

func formatSeconds(s float64) string {
	if s <= 0 {
		return "TIMEOUT"
	}
	return fmt.Sprintf("%.3fs", s)
}

// runBenchmark executes the report several times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, dbPath string, workers int) (coldTime float64, warmTimes []float64) {
	args := []string{
		"report",
		"--source-backend", "sqlite",
		"--source-db-connect", dbPath,
		"--history-backend", "none",
		"--workers", strconv.Itoa(workers),
		"--output", "json",
		"--output-file", os.DevNull,
	}

	var times []float64
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "newslog", args...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
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
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("newslog_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"dataset", "rows", "workers", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{result.Dataset, strconv.Itoa(result.Rows), strconv.Itoa(result.Workers), result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, name := range config.Order {
		fmt.Printf("%s (%d rows):\n", name, config.Datasets[name])
		for _, result := range results {
			if result.Dataset == name {
				fmt.Printf("  workers=%-3d: Cold: %s, Warm: %s\n", result.Workers, result.ColdTime, result.WarmTime)
			}
		}
	}
}
