package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestCompute_KnownDates(t *testing.T) {
	tests := []struct {
		name string
		date string
		want Kin
	}{
		{"end of long count", "2012-12-21", 207},
		{"new year 2013", "2013-07-26", 164},
		{"harmonic convergence year", "1987-07-26", 34},
		{"zero remaps to 260", "2013-02-12", 260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDateString(tt.date)
			if err != nil {
				t.Fatalf("ParseDateString(%q) error = %v", tt.date, err)
			}

			got, err := FromDate(date)
			if err != nil {
				t.Fatalf("FromDate(%s) error = %v", tt.date, err)
			}
			if got != tt.want {
				t.Errorf("FromDate(%s) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestCompute_AlwaysOnRing(t *testing.T) {
	for year := MinYear; year <= MaxYear; year++ {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= 31; day++ {
				for _, half := range []bool{false, true} {
					k, err := Compute(DateKey{Year: year, Month: month, Day: day, SecondHalf: half})
					if err != nil {
						t.Fatalf("Compute(%d-%d-%d, %v) error = %v", year, month, day, half, err)
					}
					if k < 1 || k > RingSize {
						t.Fatalf("Compute(%d-%d-%d, %v) = %d, outside [1,%d]", year, month, day, half, k, RingSize)
					}
				}
			}
		}
	}
}

func TestCompute_FirstAndLastDayOfYear(t *testing.T) {
	for _, year := range []int{MinYear, 1950, 1999, 2000, ReferenceYear, 2024, MaxYear} {
		base, err := YearValue(year)
		if err != nil {
			t.Fatalf("YearValue(%d) error = %v", year, err)
		}

		jan1, err := Compute(DateKey{Year: year, Month: 1, Day: 1})
		if err != nil {
			t.Fatalf("Compute(%d-01-01) error = %v", year, err)
		}
		if want := Normalize(base + 1); jan1 != want {
			t.Errorf("Compute(%d-01-01) = %d, want %d", year, jan1, want)
		}

		dec31, err := Compute(DateKey{Year: year, Month: 12, Day: 31})
		if err != nil {
			t.Fatalf("Compute(%d-12-31) error = %v", year, err)
		}
		if want := Normalize(base + 334 + 31); dec31 != want {
			t.Errorf("Compute(%d-12-31) = %d, want %d", year, dec31, want)
		}
	}
}

func TestCompute_SecondHalfOfDay29(t *testing.T) {
	for month := 1; month <= 12; month++ {
		second, err := Compute(DateKey{Year: ReferenceYear, Month: month, Day: 29, SecondHalf: true})
		if err != nil {
			t.Fatalf("Compute(month %d, day 29, second half) error = %v", month, err)
		}

		offset, _ := MonthOffset(month)
		if want := Normalize(ReferenceValue + offset + 1); second != want {
			t.Errorf("month %d: second half of day 29 = %d, want %d", month, second, want)
		}
	}

	// The flag only affects day 29.
	plain, _ := Compute(DateKey{Year: ReferenceYear, Month: 3, Day: 28})
	flagged, _ := Compute(DateKey{Year: ReferenceYear, Month: 3, Day: 28, SecondHalf: true})
	if plain != flagged {
		t.Errorf("second half flag changed day 28: %d vs %d", plain, flagged)
	}

	first, _ := Compute(DateKey{Year: ReferenceYear, Month: 3, Day: 29})
	if first != 45 {
		t.Errorf("first half of 2013-03-29 = %d, want 45", first)
	}
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  DateKey
		want error
	}{
		{"year before table", DateKey{Year: MinYear - 1, Month: 1, Day: 1}, ErrOutOfRange},
		{"year after table", DateKey{Year: MaxYear + 1, Month: 1, Day: 1}, ErrOutOfRange},
		{"month zero", DateKey{Year: 2000, Month: 0, Day: 1}, ErrInvalidMonth},
		{"month thirteen", DateKey{Year: 2000, Month: 13, Day: 1}, ErrInvalidMonth},
		{"day zero", DateKey{Year: 2000, Month: 1, Day: 0}, ErrInvalidDay},
		{"day thirty-two", DateKey{Year: 2000, Month: 1, Day: 32}, ErrInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.key)
			if !errors.Is(err, tt.want) {
				t.Errorf("Compute(%+v) error = %v, want %v", tt.key, err, tt.want)
			}
		})
	}
}

func TestCompute_DoesNotCheckMonthLength(t *testing.T) {
	// February 31 is not a real date but still has a value.
	if _, err := Compute(DateKey{Year: 2000, Month: 2, Day: 31}); err != nil {
		t.Errorf("Compute(2000-02-31) error = %v, want nil", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   int
		want Kin
	}{
		{0, 260},
		{1, 1},
		{259, 259},
		{260, 260},
		{261, 1},
		{520, 260},
		{-1, 259},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewKin(t *testing.T) {
	for _, n := range []int{1, 42, 260} {
		k, err := NewKin(n)
		if err != nil {
			t.Errorf("NewKin(%d) error = %v", n, err)
		}
		if k.Int() != n {
			t.Errorf("NewKin(%d) = %d", n, k)
		}
	}

	for _, n := range []int{-5, 0, 261} {
		if _, err := NewKin(n); !errors.Is(err, ErrInvalidKin) {
			t.Errorf("NewKin(%d) error = %v, want ErrInvalidKin", n, err)
		}
	}
}

func TestKin_ToneAndSeal(t *testing.T) {
	tests := []struct {
		kin  Kin
		tone int
		seal int
	}{
		{1, 1, 1},
		{13, 13, 13},
		{14, 1, 14},
		{20, 7, 20},
		{34, 8, 14},
		{260, 13, 20},
	}

	for _, tt := range tests {
		if got := tt.kin.Tone(); got != tt.tone {
			t.Errorf("Kin(%d).Tone() = %d, want %d", tt.kin, got, tt.tone)
		}
		if got := tt.kin.Seal(); got != tt.seal {
			t.Errorf("Kin(%d).Seal() = %d, want %d", tt.kin, got, tt.seal)
		}
	}
}

func TestYearValue_Step(t *testing.T) {
	for year := MinYear; year < MaxYear; year++ {
		a, _ := YearValue(year)
		b, _ := YearValue(year + 1)
		if (a+yearStep)%RingSize != b {
			t.Fatalf("YearValue(%d) = %d, YearValue(%d) = %d, want step of %d", year, a, year+1, b, yearStep)
		}
	}

	if !SupportsYear(ReferenceYear) || SupportsYear(MaxYear+1) {
		t.Error("SupportsYear() disagrees with the table bounds")
	}
}

func TestKeyFromDate(t *testing.T) {
	date := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	key := KeyFromDate(date, true)
	want := DateKey{Year: 2024, Month: 2, Day: 29, SecondHalf: true}
	if key != want {
		t.Errorf("KeyFromDate() = %+v, want %+v", key, want)
	}
	if FormatDate(date) != "2024-02-29" {
		t.Errorf("FormatDate() = %q", FormatDate(date))
	}
}
