package calendar

import "time"

// DateLayout is the accepted full-date format.
const DateLayout = "2006-01-02"

// ParseDateString parses a date string in YYYY-MM-DD format
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// KeyFromDate builds the formula input for a calendar date.
func KeyFromDate(date time.Time, secondHalf bool) DateKey {
	return DateKey{
		Year:       date.Year(),
		Month:      int(date.Month()),
		Day:        date.Day(),
		SecondHalf: secondHalf,
	}
}

// FromDate derives the KIN of a calendar date.
func FromDate(date time.Time) (Kin, error) {
	return Compute(KeyFromDate(date, false))
}
