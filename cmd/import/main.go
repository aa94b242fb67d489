// Command import copies the reference tables of a data directory into a
// SQLite store.
//
// Usage:
//
//	go run ./cmd/import -data data -db data/reference.db
//
// This tool:
// 1. Reads every .csv and .xlsx file in the data directory
// 2. Creates/opens the SQLite database
// 3. Runs migrations to ensure schema is current
// 4. Writes all tables in a single transaction
//
// The import is idempotent: a table already in the store is replaced by the
// file of the same name. Tables absent from the directory are kept.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/maya-kin/internal/database"
	"github.com/zapponejosh/maya-kin/internal/dataload"
)

func main() {
	// Parse command line flags
	dataDir := flag.String("data", "data", "Directory of .csv/.xlsx reference tables")
	dbPath := flag.String("db", "data/reference.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Run import
	if err := run(*dataDir, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(dataDir, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read the data directory
	// =========================================================================
	logger.Info("reading data directory", slog.String("path", dataDir))

	set, err := dataload.LoadAll(ctx, dataDir, dataload.Options{
		Logger:        logger,
		SkipDatabases: true,
	})
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return errors.New("no readable tables in data directory")
	}

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import tables in a transaction
	// =========================================================================
	logger.Info("starting import", slog.Int("tables", len(set)))

	stats, err := db.ImportTables(ctx, set)
	if err != nil {
		return fmt.Errorf("import tables: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	tableCount, err := db.CountTables(ctx)
	if err != nil {
		return fmt.Errorf("count tables: %w", err)
	}

	rowCount, err := db.CountRows(ctx)
	if err != nil {
		return fmt.Errorf("count rows: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("import verified",
		slog.Int("tables", tableCount),
		slog.Int("rows", rowCount),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	for _, s := range set.Summaries() {
		fmt.Printf("%-24s %6d rows  (%s)\n", s.Name, s.Rows, s.Source)
	}
	fmt.Printf("Tables imported:     %d\n", stats.Tables)
	fmt.Printf("Rows imported:       %d\n", stats.Rows)
	fmt.Printf("Tables in store:     %d\n", tableCount)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}
