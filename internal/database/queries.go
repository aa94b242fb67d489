package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/maya-kin/internal/table"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}

	return nil
}

// =============================================================================
// Import
// =============================================================================

// ImportTable writes t into the store, replacing any table with the same name.
func (tx *Tx) ImportTable(ctx context.Context, t *table.Table) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM reference_tables WHERE name = ?", t.Name); err != nil {
		return fmt.Errorf("delete previous table %q: %w", t.Name, err)
	}

	columnsJSON, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO reference_tables (name, source, columns, row_count)
		VALUES (?, ?, ?, ?)
	`, t.Name, t.Source, string(columnsJSON), t.Len())
	if err != nil {
		return fmt.Errorf("insert table %q: %w", t.Name, err)
	}

	tableID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get table id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reference_rows (table_id, row_index, cells)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare row insert: %w", err)
	}
	defer stmt.Close()

	cells := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, col := range t.Columns {
			cells[j] = row[col]
		}
		cellsJSON, err := json.Marshal(cells)
		if err != nil {
			return fmt.Errorf("marshal row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, tableID, i, string(cellsJSON)); err != nil {
			return fmt.Errorf("insert row %d of %q: %w", i, t.Name, err)
		}
	}

	return nil
}

// ImportTables writes every table of set in one transaction.
func (db *DB) ImportTables(ctx context.Context, set table.Set) (ImportStats, error) {
	var stats ImportStats
	err := db.WithTx(ctx, func(tx *Tx) error {
		for _, name := range set.Names() {
			t := set[name]
			if err := tx.ImportTable(ctx, t); err != nil {
				return err
			}
			stats.Tables++
			stats.Rows += t.Len()
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}

// =============================================================================
// Reference Table Queries
// =============================================================================

// ListTables returns every stored table, ordered by name.
func (db *DB) ListTables(ctx context.Context) ([]TableInfo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, source, columns, row_count, imported_at
		FROM reference_tables
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var infos []TableInfo
	for rows.Next() {
		info, err := scanTableInfo(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return infos, nil
}

// GetTableInfo returns the stored table named name.
// Returns ErrNotFound if no such table was imported.
func (db *DB) GetTableInfo(ctx context.Context, name string) (*TableInfo, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, source, columns, row_count, imported_at
		FROM reference_tables
		WHERE name = ?
	`, name)

	info, err := scanTableInfo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return info, nil
}

// LoadTable reads the named table with all rows in source order.
func (db *DB) LoadTable(ctx context.Context, name string) (*table.Table, error) {
	info, err := db.GetTableInfo(ctx, name)
	if err != nil {
		return nil, err
	}
	return db.loadRows(ctx, info)
}

// LoadAll reads every stored table.
func (db *DB) LoadAll(ctx context.Context) (table.Set, error) {
	infos, err := db.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	set := make(table.Set, len(infos))
	for i := range infos {
		t, err := db.loadRows(ctx, &infos[i])
		if err != nil {
			return nil, err
		}
		set.Add(t)
	}
	return set, nil
}

func (db *DB) loadRows(ctx context.Context, info *TableInfo) (*table.Table, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT cells
		FROM reference_rows
		WHERE table_id = ?
		ORDER BY row_index
	`, info.ID)
	if err != nil {
		return nil, fmt.Errorf("query rows of %q: %w", info.Name, err)
	}
	defer rows.Close()

	records := make([][]string, 0, info.RowCount)
	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, fmt.Errorf("unmarshal row of %q: %w", info.Name, err)
		}
		records = append(records, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	t := table.New(info.Name, info.Columns, records)
	t.Source = info.Source
	return t, nil
}

// CountTables returns the number of stored tables.
func (db *DB) CountTables(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reference_tables").Scan(&count); err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}
	return count, nil
}

// CountRows returns the number of stored rows across all tables.
func (db *DB) CountRows(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reference_rows").Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTableInfo(s scanner) (*TableInfo, error) {
	var info TableInfo
	var columnsJSON string
	var importedAt sql.NullString

	if err := s.Scan(&info.ID, &info.Name, &info.Source, &columnsJSON, &info.RowCount, &importedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan table: %w", err)
	}

	if err := json.Unmarshal([]byte(columnsJSON), &info.Columns); err != nil {
		return nil, fmt.Errorf("unmarshal columns of %q: %w", info.Name, err)
	}
	info.ImportedAt = parseTimestamp(importedAt)

	return &info, nil
}
