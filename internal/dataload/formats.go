package dataload

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/zapponejosh/maya-kin/internal/database"
	"github.com/zapponejosh/maya-kin/internal/table"
)

// ReadCSV parses a comma-separated file. Every cell is kept as a string.
func ReadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are padded later
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	return fromRecords(path, records)
}

// ReadExcel parses the first sheet of a workbook. Cells with a date number
// format are written as YYYY-MM-DD whatever their display format.
func ReadExcel(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	if err := isoDates(f, sheets[0], records, raw); err != nil {
		return nil, err
	}

	return fromRecords(path, records)
}

// isoDates rewrites the date-formatted cells of records in place from the
// serial numbers in raw.
func isoDates(f *excelize.File, sheet string, records, raw [][]string) error {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return fmt.Errorf("read workbook properties: %w", err)
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	dateStyles := map[int]bool{}
	for r, row := range records {
		for c := range row {
			if r >= len(raw) || c >= len(raw[r]) {
				continue
			}
			serial, err := strconv.ParseFloat(raw[r][c], 64)
			if err != nil {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			switch typ, err := f.GetCellType(sheet, cell); {
			case err != nil:
				return fmt.Errorf("read type of %s: %w", cell, err)
			case typ != excelize.CellTypeUnset && typ != excelize.CellTypeNumber:
				continue
			}
			idx, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return fmt.Errorf("read style of %s: %w", cell, err)
			}
			isDate, seen := dateStyles[idx]
			if !seen {
				style, err := f.GetStyle(idx)
				if err != nil {
					return fmt.Errorf("read style %d: %w", idx, err)
				}
				isDate = isDateFormat(style)
				dateStyles[idx] = isDate
			}
			if !isDate {
				continue
			}

			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			row[c] = t.Format("2006-01-02")
		}
	}
	return nil
}

// isDateFormat reports whether style shows a calendar date. Time-only
// formats do not count.
func isDateFormat(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return hasDateTokens(*style.CustomNumFmt)
	}
	switch n := style.NumFmt; {
	case n >= 14 && n <= 17, n == 22:
		return true
	case n >= 27 && n <= 36, n >= 50 && n <= 58:
		// locale date formats
		return true
	}
	return false
}

// hasDateTokens looks for year or day tokens outside quoted literals and
// bracketed sections of a format code.
func hasDateTokens(code string) bool {
	var quoted, bracketed bool
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracketed = true
		case r == ']':
			bracketed = false
		case bracketed:
		case r == 'y', r == 'd':
			return true
		}
	}
	return false
}

// ReadSQLite reads every table of a reference store without writing to it.
func ReadSQLite(ctx context.Context, path string, logger *slog.Logger) ([]*table.Table, error) {
	db, err := database.Open(database.ReadOnlyConfig(path), logger)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	set, err := db.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference store: %w", err)
	}

	tables := make([]*table.Table, 0, len(set))
	for _, name := range set.Names() {
		tables = append(tables, set[name])
	}
	return tables, nil
}
