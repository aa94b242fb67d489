package calendar

import "fmt"

// Year table constants
const (
	// MinYear is the first year in the year table.
	MinYear = 1900

	// MaxYear is the last year in the year table.
	MaxYear = 2100

	// ReferenceYear anchors the year table.
	// The year value of 2013 is 217, which puts 2013-07-26 on KIN 164.
	ReferenceYear = 2013

	// ReferenceValue is the year value of ReferenceYear.
	ReferenceValue = 217

	// yearStep is how far a 365-day year advances the ring (365 mod 260).
	yearStep = 105
)

// yearValues maps every year in [MinYear, MaxYear] to its base value.
var yearValues = buildYearValues(MinYear, MaxYear)

// buildYearValues enumerates the year table.
//
// Every year advances the ring by the same step because the leap day is
// not counted (see DayOffset for the duplicated day 29).
func buildYearValues(from, to int) map[int]int {
	values := make(map[int]int, to-from+1)
	for year := from; year <= to; year++ {
		v := (ReferenceValue + yearStep*(year-ReferenceYear)) % RingSize
		if v < 0 {
			v += RingSize
		}
		values[year] = v
	}
	return values
}

// YearValue returns the base value of year, in [0,259].
func YearValue(year int) (int, error) {
	v, ok := yearValues[year]
	if !ok {
		return 0, fmt.Errorf("%w: %d (supported years are %d to %d)", ErrOutOfRange, year, MinYear, MaxYear)
	}
	return v, nil
}

// SupportsYear reports whether year is in the year table.
func SupportsYear(year int) bool {
	_, ok := yearValues[year]
	return ok
}
