// Package calendar provides the date to KIN calculation.
//
// A KIN is a position on the repeating 260-day ring. The ring has no zero
// element, so every computation is reduced modulo 260 and a zero result
// becomes 260.
package calendar

import (
	"errors"
	"fmt"
)

// Ring constants
const (
	// RingSize is the number of positions on the KIN ring.
	RingSize = 260

	// ToneCount is the length of the tone sub-cycle.
	ToneCount = 13

	// SealCount is the length of the seal sub-cycle.
	SealCount = 20

	// duplicatedDay is the calendar day that may be split into two halves.
	duplicatedDay = 29
)

var (
	// ErrOutOfRange is returned when a year is outside the year table.
	ErrOutOfRange = errors.New("year out of range")

	// ErrInvalidMonth is returned when a month is outside [1,12].
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidDay is returned when a day is outside [1,31].
	ErrInvalidDay = errors.New("invalid day")

	// ErrInvalidKin is returned when a number is not a position on the ring.
	ErrInvalidKin = errors.New("invalid kin")
)

// Kin is a position on the 260-day ring, always in [1,260].
type Kin int

// NewKin validates n as a ring position.
func NewKin(n int) (Kin, error) {
	if n < 1 || n > RingSize {
		return 0, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidKin, n, RingSize)
	}
	return Kin(n), nil
}

// Normalize reduces any integer onto the ring.
func Normalize(n int) Kin {
	r := n % RingSize
	if r < 0 {
		r += RingSize
	}
	if r == 0 {
		return Kin(RingSize)
	}
	return Kin(r)
}

// Int returns the KIN as a plain int.
func (k Kin) Int() int {
	return int(k)
}

// Tone returns the position in the 13-tone sub-cycle, in [1,13].
func (k Kin) Tone() int {
	return (int(k)-1)%ToneCount + 1
}

// Seal returns the position in the 20-seal sub-cycle, in [1,20].
func (k Kin) Seal() int {
	return (int(k)-1)%SealCount + 1
}

// DateKey identifies the input of the KIN formula.
//
// SecondHalf marks the second half of a duplicated day 29, whose day
// contribution restarts at 1.
type DateKey struct {
	Year       int  `json:"year"`
	Month      int  `json:"month"`
	Day        int  `json:"day"`
	SecondHalf bool `json:"second_half,omitempty"`
}

// monthOffsets holds the non-leap cumulative day count before each month.
var monthOffsets = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// MonthOffset returns the cumulative day offset of month.
func MonthOffset(month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: %d (must be between 1 and 12)", ErrInvalidMonth, month)
	}
	return monthOffsets[month-1], nil
}

// DayOffset returns the day contribution of day.
func DayOffset(day int, secondHalf bool) (int, error) {
	if day < 1 || day > 31 {
		return 0, fmt.Errorf("%w: %d (must be between 1 and 31)", ErrInvalidDay, day)
	}
	if day == duplicatedDay && secondHalf {
		return 1, nil
	}
	return day, nil
}

// Compute derives the KIN for a date.
//
// The result is (year value + month offset + day offset) mod 260, with 0
// mapped to 260. Day-of-month is not checked against the month length.
func Compute(key DateKey) (Kin, error) {
	yearValue, err := YearValue(key.Year)
	if err != nil {
		return 0, err
	}

	monthValue, err := MonthOffset(key.Month)
	if err != nil {
		return 0, err
	}

	dayValue, err := DayOffset(key.Day, key.SecondHalf)
	if err != nil {
		return 0, err
	}

	return Normalize(yearValue + monthValue + dayValue), nil
}
