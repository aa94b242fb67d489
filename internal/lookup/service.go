// Package lookup answers KIN and Maya birthday queries against the loaded
// reference tables.
//
// Table and column names are bound once through Options; the service never
// searches table names at query time.
package lookup

import (
	"errors"
	"fmt"

	"github.com/zapponejosh/maya-kin/internal/calendar"
	"github.com/zapponejosh/maya-kin/internal/config"
	"github.com/zapponejosh/maya-kin/internal/table"
)

// Options names the tables and columns the service reads.
type Options struct {
	MatrixTable         string
	KinColumn           string
	BirthdayTable       string
	BirthdayDateColumn  string
	BirthdayLabelColumn string
}

// OptionsFromConfig copies the table bindings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MatrixTable:         cfg.MatrixTable,
		KinColumn:           cfg.KinColumn,
		BirthdayTable:       cfg.BirthdayTable,
		BirthdayDateColumn:  cfg.BirthdayDateColumn,
		BirthdayLabelColumn: cfg.BirthdayLabelColumn,
	}
}

// DefaultOptions returns the default bindings.
func DefaultOptions() Options {
	return Options{
		MatrixTable:         config.DefaultMatrixTable,
		KinColumn:           config.DefaultKinColumn,
		BirthdayTable:       config.DefaultBirthdayTable,
		BirthdayDateColumn:  config.DefaultBirthdayDateColumn,
		BirthdayLabelColumn: config.DefaultBirthdayLabelColumn,
	}
}

// Service runs queries over an immutable table set. It is safe for
// concurrent use.
type Service struct {
	tables table.Set
	opts   Options
}

// New creates a service over tables.
func New(tables table.Set, opts Options) *Service {
	if tables == nil {
		tables = table.Set{}
	}
	return &Service{tables: tables, opts: opts}
}

// Options returns the bindings the service was built with.
func (s *Service) Options() Options {
	return s.opts
}

// Tables describes every loaded table.
func (s *Service) Tables() []table.Summary {
	return s.tables.Summaries()
}

// Table returns a loaded table by name.
func (s *Service) Table(name string) (*table.Table, error) {
	return s.tables.Get(name)
}

// Kin returns the matrix row for k. Values off the ring report
// calendar.ErrInvalidKin.
func (s *Service) Kin(k calendar.Kin) (table.Record, error) {
	if _, err := calendar.NewKin(k.Int()); err != nil {
		return nil, err
	}

	matrix, err := s.tables.Get(s.opts.MatrixTable)
	if err != nil {
		return nil, fmt.Errorf("matrix table: %w", err)
	}
	return matrix.FindByIndex(s.opts.KinColumn, k.Int())
}

// Birthdays returns every birthday row for month/day. An empty result is
// not an error.
func (s *Service) Birthdays(month, day int) ([]table.Row, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", calendar.ErrInvalidMonth, month)
	}
	if day < 1 || day > 31 {
		return nil, fmt.Errorf("%w: %d", calendar.ErrInvalidDay, day)
	}

	birthdays, err := s.tables.Get(s.opts.BirthdayTable)
	if err != nil {
		return nil, fmt.Errorf("birthday table: %w", err)
	}
	return birthdays.FindByMonthDay(s.opts.BirthdayDateColumn, month, day)
}

// Birthday returns the label of the first birthday row for month/day.
func (s *Service) Birthday(month, day int) (string, error) {
	rows, err := s.Birthdays(month, day)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: no birthday for %s", table.ErrNotFound, table.MonthDayKey(month, day))
	}

	label, ok := rows[0][s.opts.BirthdayLabelColumn]
	if !ok {
		return "", fmt.Errorf("%w: %q in table %q", table.ErrColumnNotFound, s.opts.BirthdayLabelColumn, s.opts.BirthdayTable)
	}
	return label, nil
}

// DateResult is the outcome of a date query.
type DateResult struct {
	Date   calendar.DateKey `json:"date"`
	Kin    calendar.Kin     `json:"kin"`
	Tone   int              `json:"tone"`
	Seal   int              `json:"seal"`
	Record table.Record     `json:"record,omitempty"`
}

// KinForDate computes the KIN of key and attaches its matrix row.
//
// The matrix row is optional: when the matrix table is not loaded, or has
// no row for the KIN, the result carries the computed KIN alone. Any other
// lookup failure is returned.
func (s *Service) KinForDate(key calendar.DateKey) (*DateResult, error) {
	k, err := calendar.Compute(key)
	if err != nil {
		return nil, err
	}

	res := &DateResult{
		Date: key,
		Kin:  k,
		Tone: k.Tone(),
		Seal: k.Seal(),
	}

	rec, err := s.Kin(k)
	switch {
	case err == nil:
		res.Record = rec
	case errors.Is(err, table.ErrTableNotFound), errors.Is(err, table.ErrNotFound):
		// formula result stands on its own
	default:
		return nil, err
	}

	return res, nil
}
