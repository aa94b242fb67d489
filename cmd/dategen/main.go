// Command dategen writes the KIN of every date of a year as CSV.
//
// Each day 29 gets a second row for its second half.
//
// Usage:
//
//	go run ./cmd/dategen -year 2025 -o kin-2025.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/zapponejosh/maya-kin/internal/calendar"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "Year to generate dates for")
	output := flag.String("o", "", "Output CSV file (default stdout)")
	flag.Parse()

	if !calendar.SupportsYear(*year) {
		fmt.Fprintf(os.Stderr, "Error: year %d is outside %d-%d\n", *year, calendar.MinYear, calendar.MaxYear)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	summary, err := generate(w, *year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Key dates go to stderr so stdout stays valid CSV.
	fmt.Fprintf(os.Stderr, "=== KIN Calendar for %d ===\n\n", *year)
	fmt.Fprintln(os.Stderr, "Key Dates:")
	fmt.Fprintf(os.Stderr, "  Jan 1:           KIN %d\n", summary.first)
	fmt.Fprintf(os.Stderr, "  Dec 31:          KIN %d\n", summary.last)
	for _, d := range summary.cycleStarts {
		fmt.Fprintf(os.Stderr, "  Cycle start:     %s (KIN 1)\n", calendar.FormatDate(d))
	}
	fmt.Fprintf(os.Stderr, "\n%d rows written\n", summary.rows)
}

type summary struct {
	first, last calendar.Kin
	cycleStarts []time.Time
	rows        int
}

// generate writes one row per date, plus one per second half of day 29.
func generate(w io.Writer, year int) (*summary, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "second_half", "kin", "tone", "seal"}); err != nil {
		return nil, err
	}

	s := &summary{}
	current := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	for current.Year() == year {
		halves := []bool{false}
		if current.Day() == 29 {
			halves = append(halves, true)
		}

		for _, secondHalf := range halves {
			k, err := calendar.Compute(calendar.KeyFromDate(current, secondHalf))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", calendar.FormatDate(current), err)
			}
			if s.rows == 0 {
				s.first = k
			}
			if k == 1 && !secondHalf {
				s.cycleStarts = append(s.cycleStarts, current)
			}
			s.last = k
			s.rows++

			err = cw.Write([]string{
				calendar.FormatDate(current),
				strconv.FormatBool(secondHalf),
				strconv.Itoa(k.Int()),
				strconv.Itoa(k.Tone()),
				strconv.Itoa(k.Seal()),
			})
			if err != nil {
				return nil, err
			}
		}
		current = current.AddDate(0, 0, 1)
	}

	cw.Flush()
	return s, cw.Error()
}
