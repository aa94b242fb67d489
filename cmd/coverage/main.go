// Command coverage checks that the reference tables cover every KIN and
// every calendar day, and that every date in a year range resolves to a
// matrix row.
//
// Usage:
//
//	go run ./cmd/coverage -data data -start 2024 -years 4
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/maya-kin/internal/config"
	"github.com/zapponejosh/maya-kin/internal/coverage"
	"github.com/zapponejosh/maya-kin/internal/lookup"
)

func main() {
	dataDir := flag.String("data", "", "Directory of reference tables (default $DATA_DIR)")
	dbPath := flag.String("db", "", "SQLite reference store (default $DATABASE_PATH)")
	startYear := flag.Int("start", time.Now().Year(), "Start year")
	years := flag.Int("years", 4, "Number of years to check")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc, err := lookup.Open(context.Background(), cfg, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Reference Table Coverage")
	fmt.Println("================================================================")
	fmt.Printf("Data Dir:    %s\n", cfg.DataDir)
	fmt.Printf("Database:    %s\n", cfg.DatabasePath)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Println()

	report, err := coverage.Check(svc, *startYear, endYear)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	printMatrix(report.Matrix)
	printBirthday(report.Birthday)
	printYears(report.ByYear)

	// Output to file if requested
	if *outputFile != "" {
		saveResults(*outputFile, report)
	}

	if !report.Complete() {
		fmt.Println("Coverage incomplete ✗")
		os.Exit(1)
	}
	fmt.Println("Full coverage! ✓")
}

func printMatrix(cov *coverage.IndexCoverage) {
	fmt.Println("Matrix table:")
	if cov == nil {
		fmt.Println("  ✗ not loaded")
		fmt.Println()
		return
	}
	fmt.Printf("  Table:       %s (%d rows)\n", cov.Table, cov.Rows)
	fmt.Printf("  Missing:     %d of 260\n", len(cov.Missing))
	printSample("  ", cov.Missing)
	fmt.Printf("  Duplicates:  %d (first row wins)\n", len(cov.Duplicates))
	printSample("  ", cov.Duplicates)
	if cov.Unparsed > 0 {
		fmt.Printf("  Unparsed:    %d rows with a non-numeric KIN\n", cov.Unparsed)
	}
	fmt.Println()
}

func printBirthday(cov *coverage.MonthDayCoverage) {
	fmt.Println("Birthday table:")
	if cov == nil {
		fmt.Println("  ✗ not loaded")
		fmt.Println()
		return
	}
	fmt.Printf("  Table:       %s (%d rows)\n", cov.Table, cov.Rows)
	fmt.Printf("  Missing:     %d of 366 days\n", len(cov.Missing))
	printSample("  ", cov.Missing)
	fmt.Printf("  Duplicates:  %d\n", len(cov.Duplicates))
	printSample("  ", cov.Duplicates)
	if cov.Unparsed > 0 {
		fmt.Printf("  Unparsed:    %d rows with an unreadable date\n", cov.Unparsed)
	}
	fmt.Println()
}

func printYears(stats []coverage.YearStats) {
	fmt.Println("By Year:")
	for _, s := range stats {
		status := "✓"
		if s.WithRecord != s.TotalDays {
			status = "✗"
		}
		fmt.Printf("  %s %d: %d/%d days with a matrix row (%.1f%%)\n",
			status, s.Year, s.WithRecord, s.TotalDays,
			float64(s.WithRecord)/float64(s.TotalDays)*100)
	}
	fmt.Println()
}

// printSample shows up to 10 entries of a list.
func printSample[T any](indent string, items []T) {
	for i, item := range items {
		if i >= 10 {
			fmt.Printf("%s  ... and %d more\n", indent, len(items)-10)
			break
		}
		fmt.Printf("%s  - %v\n", indent, item)
	}
}

func saveResults(filename string, report *coverage.Report) {
	output := struct {
		GeneratedAt string           `json:"generated_at"`
		Complete    bool             `json:"complete"`
		Report      *coverage.Report `json:"report"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Complete:    report.Complete(),
		Report:      report,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
