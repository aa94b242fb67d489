package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const bom = "\ufeff"

// NormalizeHeader trims a column name and puts it in NFC form so that the
// same header typed on different systems compares equal.
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, bom)
	return norm.NFC.String(strings.TrimSpace(s))
}

// normalizeCell trims whitespace and folds full-width characters
// (digits, slashes) to their ASCII forms.
func normalizeCell(s string) string {
	return strings.TrimSpace(width.Fold.String(strings.TrimSpace(s)))
}

// CoerceInt converts a cell to an integer. Integral decimals such as
// "42.0" are accepted; anything else reports false.
func CoerceInt(s string) (int, bool) {
	s = normalizeCell(s)
	if s == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// MonthDayKey formats month and day as the canonical zero-padded MM/DD key.
func MonthDayKey(month, day int) string {
	return fmt.Sprintf("%02d/%02d", month, day)
}

// ParseMonthDay reads a month/day cell. Accepted forms are "M/D", "MM/DD",
// "M-D", "M.D", "M月D日" and full dates "YYYY/MM/DD" or "YYYY-MM-DD"
// (the year is ignored). Three-part dates must lead with a four-digit year;
// "MM-DD-YY" and "MM/DD/YYYY" are rejected.
func ParseMonthDay(s string) (month, day int, ok bool) {
	s = normalizeCell(s)
	if s == "" {
		return 0, 0, false
	}

	if strings.Contains(s, "月") {
		s = strings.TrimSuffix(s, "日")
		s = strings.Replace(s, "月", "/", 1)
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	switch len(parts) {
	case 2:
	case 3:
		if !isYear(strings.TrimSpace(parts[0])) {
			return 0, 0, false
		}
		parts = parts[1:]
	default:
		return 0, 0, false
	}

	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	day, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || day < 1 || day > 31 {
		return 0, 0, false
	}
	return month, day, true
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CanonicalMonthDay rewrites a month/day cell as its MM/DD key.
func CanonicalMonthDay(s string) (string, bool) {
	month, day, ok := ParseMonthDay(s)
	if !ok {
		return "", false
	}
	return MonthDayKey(month, day), true
}
