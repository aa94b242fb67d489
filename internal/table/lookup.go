package table

import "fmt"

// FindByIndex returns the first row whose column coerces to index.
//
// The returned record carries every field of the row unchanged except the
// key column, which holds the integer. Tables are expected to have at most
// one row per index; when several match, the first wins.
func (t *Table) FindByIndex(column string, index int) (Record, error) {
	if err := t.requireColumn(column); err != nil {
		return nil, err
	}

	for _, row := range t.Rows {
		n, ok := CoerceInt(row[column])
		if !ok || n != index {
			continue
		}

		rec := make(Record, len(row))
		for k, v := range row {
			rec[k] = v
		}
		rec[column] = n
		return rec, nil
	}

	return nil, fmt.Errorf("%w: %s=%d in table %q", ErrNotFound, column, index, t.Name)
}

// FindByMonthDay returns every row whose column holds month/day.
//
// Cells and the query are both reduced to the MM/DD key before comparing,
// so "3/5" and "03/05" join the same row. Cells that do not parse never
// match. No match yields an empty slice and a nil error.
func (t *Table) FindByMonthDay(column string, month, day int) ([]Row, error) {
	if err := t.requireColumn(column); err != nil {
		return nil, err
	}

	want := MonthDayKey(month, day)
	matches := []Row{}
	for _, row := range t.Rows {
		key, ok := CanonicalMonthDay(row[column])
		if ok && key == want {
			matches = append(matches, row.Clone())
		}
	}
	return matches, nil
}
