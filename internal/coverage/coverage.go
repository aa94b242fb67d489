// Package coverage checks that the reference tables answer every query the
// formula can produce.
package coverage

import (
	"fmt"
	"time"

	"github.com/zapponejosh/maya-kin/internal/calendar"
	"github.com/zapponejosh/maya-kin/internal/lookup"
	"github.com/zapponejosh/maya-kin/internal/table"
)

// Report holds the result of a coverage check.
type Report struct {
	Matrix   *IndexCoverage    `json:"matrix,omitempty"`
	Birthday *MonthDayCoverage `json:"birthday,omitempty"`
	ByYear   []YearStats       `json:"by_year"`
}

// IndexCoverage describes how the matrix table covers the KIN ring.
type IndexCoverage struct {
	Table      string `json:"table"`
	Rows       int    `json:"rows"`
	Missing    []int  `json:"missing"`
	Duplicates []int  `json:"duplicates"`
	Unparsed   int    `json:"unparsed"`
}

// MonthDayCoverage describes how the birthday table covers the calendar.
type MonthDayCoverage struct {
	Table      string   `json:"table"`
	Rows       int      `json:"rows"`
	Missing    []string `json:"missing"`
	Duplicates []string `json:"duplicates"`
	Unparsed   int      `json:"unparsed"`
}

// YearStats counts the dates of one year whose KIN has a matrix row.
type YearStats struct {
	Year       int `json:"year"`
	TotalDays  int `json:"total_days"`
	WithRecord int `json:"with_record"`
}

// Complete reports whether every check passed.
func (r *Report) Complete() bool {
	if r.Matrix == nil || r.Birthday == nil {
		return false
	}
	if len(r.Matrix.Missing) > 0 || len(r.Birthday.Missing) > 0 {
		return false
	}
	for _, y := range r.ByYear {
		if y.WithRecord != y.TotalDays {
			return false
		}
	}
	return true
}

// Check inspects the tables bound to svc and walks every date from
// fromYear to toYear. A table that is not loaded leaves its section nil.
func Check(svc *lookup.Service, fromYear, toYear int) (*Report, error) {
	if fromYear > toYear {
		return nil, fmt.Errorf("start year %d is after end year %d", fromYear, toYear)
	}
	for _, y := range []int{fromYear, toYear} {
		if !calendar.SupportsYear(y) {
			return nil, fmt.Errorf("%w: %d", calendar.ErrOutOfRange, y)
		}
	}

	opts := svc.Options()
	report := &Report{}

	if t, err := svc.Table(opts.MatrixTable); err == nil {
		cov, err := checkIndex(t, opts.KinColumn)
		if err != nil {
			return nil, err
		}
		report.Matrix = cov
	}

	if t, err := svc.Table(opts.BirthdayTable); err == nil {
		cov, err := checkMonthDay(t, opts.BirthdayDateColumn)
		if err != nil {
			return nil, err
		}
		report.Birthday = cov
	}

	for year := fromYear; year <= toYear; year++ {
		stats := YearStats{Year: year}
		current := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		for current.Year() == year {
			res, err := svc.KinForDate(calendar.KeyFromDate(current, false))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", calendar.FormatDate(current), err)
			}
			stats.TotalDays++
			if res.Record != nil {
				stats.WithRecord++
			}
			current = current.AddDate(0, 0, 1)
		}
		report.ByYear = append(report.ByYear, stats)
	}

	return report, nil
}

func checkIndex(t *table.Table, column string) (*IndexCoverage, error) {
	if !t.HasColumn(column) {
		return nil, fmt.Errorf("%w: %q in table %q", table.ErrColumnNotFound, column, t.Name)
	}

	cov := &IndexCoverage{Table: t.Name, Rows: t.Len(), Missing: []int{}, Duplicates: []int{}}
	seen := make(map[int]int, calendar.RingSize)
	for _, row := range t.Rows {
		n, ok := table.CoerceInt(row[column])
		if !ok {
			cov.Unparsed++
			continue
		}
		seen[n]++
	}

	for k := 1; k <= calendar.RingSize; k++ {
		switch seen[k] {
		case 0:
			cov.Missing = append(cov.Missing, k)
		case 1:
		default:
			cov.Duplicates = append(cov.Duplicates, k)
		}
	}
	return cov, nil
}

func checkMonthDay(t *table.Table, column string) (*MonthDayCoverage, error) {
	if !t.HasColumn(column) {
		return nil, fmt.Errorf("%w: %q in table %q", table.ErrColumnNotFound, column, t.Name)
	}

	cov := &MonthDayCoverage{Table: t.Name, Rows: t.Len(), Missing: []string{}, Duplicates: []string{}}
	seen := make(map[string]int, 366)
	for _, row := range t.Rows {
		key, ok := table.CanonicalMonthDay(row[column])
		if !ok {
			cov.Unparsed++
			continue
		}
		seen[key]++
	}

	for _, key := range calendarKeys() {
		switch seen[key] {
		case 0:
			cov.Missing = append(cov.Missing, key)
		case 1:
		default:
			cov.Duplicates = append(cov.Duplicates, key)
		}
	}
	return cov, nil
}

// calendarKeys lists every MM/DD of a leap year in order.
func calendarKeys() []string {
	keys := make([]string, 0, 366)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for d.Year() == 2024 {
		keys = append(keys, table.MonthDayKey(int(d.Month()), d.Day()))
		d = d.AddDate(0, 0, 1)
	}
	return keys
}
