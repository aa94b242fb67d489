package database

import (
	"time"
)

// TableInfo describes a stored reference table without its rows.
type TableInfo struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Source     string     `json:"source"`
	Columns    []string   `json:"columns"`
	RowCount   int        `json:"row_count"`
	ImportedAt *time.Time `json:"imported_at,omitempty"`
}

// ImportStats counts what an import wrote.
type ImportStats struct {
	Tables int
	Rows   int
}
