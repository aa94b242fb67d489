// Package dataload reads reference tables from a data directory.
//
// Each recognized file becomes one table named after the file without its
// extension. A SQLite file contributes every table stored in it. A file
// that fails to read is logged and skipped; the rest of the load goes on.
package dataload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zapponejosh/maya-kin/internal/table"
)

// Kind is the format of a data file.
type Kind string

const (
	KindCSV      Kind = "csv"
	KindExcel    Kind = "xlsx"
	KindSQLite   Kind = "sqlite"
	KindUnknown  Kind = ""
	kindLegacyXL Kind = "xls"
)

// ErrUnsupportedFormat is returned for recognized formats that cannot be parsed.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options controls LoadAll.
type Options struct {
	Logger *slog.Logger

	// SkipDatabases ignores .db/.sqlite files. The import command sets it
	// so a store never re-imports itself.
	SkipDatabases bool
}

// Detect returns the kind of a file from its extension.
func Detect(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV
	case ".xlsx", ".xlsm":
		return KindExcel
	case ".xls":
		return kindLegacyXL
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	default:
		return KindUnknown
	}
}

// TableName strips the directory and extension from path.
func TableName(path string) string {
	base := filepath.Base(path)
	return table.NormalizeHeader(strings.TrimSuffix(base, filepath.Ext(base)))
}

// LoadAll scans dir and parses every recognized file.
//
// Only a failure to list dir is returned as an error. Files are visited in
// name order; when two files produce the same table name the later one wins
// and a warning is logged.
func LoadAll(ctx context.Context, dir string, opts Options) (table.Set, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	set := table.Set{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		kind := Detect(path)
		if kind == KindUnknown || (kind == KindSQLite && opts.SkipDatabases) {
			continue
		}

		tables, err := LoadFile(ctx, path, logger)
		if err != nil {
			logger.Warn("skipping unreadable data file",
				slog.String("file", name),
				slog.Any("error", err),
			)
			continue
		}

		for _, t := range tables {
			if prev, ok := set[t.Name]; ok {
				logger.Warn("table loaded twice, keeping the later file",
					slog.String("table", t.Name),
					slog.String("previous", prev.Source),
					slog.String("file", t.Source),
				)
			}
			set.Add(t)
		}
	}

	logger.Info("reference data loaded",
		slog.String("dir", dir),
		slog.Int("tables", len(set)),
	)

	return set, nil
}

// LoadFile parses one data file.
func LoadFile(ctx context.Context, path string, logger *slog.Logger) ([]*table.Table, error) {
	switch Detect(path) {
	case KindCSV:
		t, err := ReadCSV(path)
		if err != nil {
			return nil, err
		}
		return []*table.Table{t}, nil
	case KindExcel:
		t, err := ReadExcel(path)
		if err != nil {
			return nil, err
		}
		return []*table.Table{t}, nil
	case KindSQLite:
		return ReadSQLite(ctx, path, logger)
	case kindLegacyXL:
		return nil, fmt.Errorf("%w: %s (save it as .xlsx)", ErrUnsupportedFormat, filepath.Base(path))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// fromRecords builds a table whose first record is the header.
// Blank records are dropped.
func fromRecords(path string, records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, errors.New("file has no header row")
	}

	body := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		body = append(body, rec)
	}

	t := table.New(TableName(path), records[0], body)
	t.Source = filepath.Base(path)
	return t, nil
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
