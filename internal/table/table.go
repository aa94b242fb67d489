// Package table holds the reference tables and the lookups that join keys
// against them.
//
// Tables are loaded once and never modified afterwards, so a Set can be
// shared by any number of readers without locking. Lookups hand out copies
// of rows, never the stored maps.
package table

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrTableNotFound is returned when a required table was not loaded.
	ErrTableNotFound = errors.New("table not found")

	// ErrColumnNotFound is returned when a table lacks a required column.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNotFound is returned when a well-formed key matches no row.
	ErrNotFound = errors.New("not found")
)

// IsNotFound checks if an error is a "no matching row" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTableNotFound checks if an error is a missing-table error.
func IsTableNotFound(err error) bool {
	return errors.Is(err, ErrTableNotFound)
}

// Row maps column name to cell value.
type Row map[string]string

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Record is a row returned by a keyed lookup. The key column holds the
// coerced integer; every other field is the cell string as loaded.
type Record map[string]any

// Table is an ordered sequence of rows with a known column order.
type Table struct {
	Name    string   `json:"name"`
	Source  string   `json:"source,omitempty"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New builds a table from a header and raw records.
// Short records are padded with empty strings; extra cells are dropped.
func New(name string, header []string, records [][]string) *Table {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = NormalizeHeader(h)
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Table{
		Name:    name,
		Columns: columns,
		Rows:    rows,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Head returns copies of the first n rows.
func (t *Table) Head(n int) []Row {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([]Row, 0, n)
	for _, r := range t.Rows[:n] {
		out = append(out, r.Clone())
	}
	return out
}

func (t *Table) requireColumn(name string) error {
	if !t.HasColumn(name) {
		return fmt.Errorf("%w: %q in table %q", ErrColumnNotFound, name, t.Name)
	}
	return nil
}

// Set maps table name to table.
type Set map[string]*Table

// Get returns the named table or ErrTableNotFound.
func (s Set) Get(name string) (*Table, error) {
	t, ok := s[name]
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return t, nil
}

// Add stores t under its name, replacing any table with the same name.
func (s Set) Add(t *Table) {
	s[t.Name] = t
}

// Names returns the table names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary describes a loaded table.
type Summary struct {
	Name    string   `json:"name"`
	Source  string   `json:"source,omitempty"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// Summaries describes every table in name order.
func (s Set) Summaries() []Summary {
	out := make([]Summary, 0, len(s))
	for _, name := range s.Names() {
		t := s[name]
		out = append(out, Summary{
			Name:    t.Name,
			Source:  t.Source,
			Rows:    t.Len(),
			Columns: append([]string(nil), t.Columns...),
		})
	}
	return out
}
