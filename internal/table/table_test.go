package table

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func matrixTable() *Table {
	return New("matrix", []string{"KIN", "Name", "Tone"}, [][]string{
		{"41", "Blue Overtone Night", "5"},
		{"42", "Yellow Self-Existing Seed", "4"},
		{"43", "Red Overtone Serpent", "5"},
	})
}

func TestFindByIndex(t *testing.T) {
	tbl := New("matrix", []string{"KIN", "Name"}, [][]string{{"42", "Seed"}})

	got, err := tbl.FindByIndex("KIN", 42)
	if err != nil {
		t.Fatalf("FindByIndex(42) error = %v", err)
	}
	want := Record{"KIN": 42, "Name": "Seed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindByIndex(42) mismatch (-want +got):\n%s", diff)
	}

	for _, kin := range []int{41, 43} {
		if _, err := tbl.FindByIndex("KIN", kin); !errors.Is(err, ErrNotFound) {
			t.Errorf("FindByIndex(%d) error = %v, want ErrNotFound", kin, err)
		}
	}
}

func TestFindByIndex_CoercesKeyColumnOnly(t *testing.T) {
	tbl := New("matrix", []string{"KIN", "Name"}, [][]string{{"260", "X"}})

	got, err := tbl.FindByIndex("KIN", 260)
	if err != nil {
		t.Fatalf("FindByIndex(260) error = %v", err)
	}
	want := Record{"KIN": 260, "Name": "X"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindByIndex(260) mismatch (-want +got):\n%s", diff)
	}
}

func TestFindByIndex_FirstMatchWins(t *testing.T) {
	tbl := New("matrix", []string{"KIN", "Name"}, [][]string{
		{"7", "first"},
		{"7.0", "second"},
	})

	got, err := tbl.FindByIndex("KIN", 7)
	if err != nil {
		t.Fatalf("FindByIndex(7) error = %v", err)
	}
	if got["Name"] != "first" {
		t.Errorf("FindByIndex(7) Name = %v, want first", got["Name"])
	}
}

func TestFindByIndex_MessyCells(t *testing.T) {
	tbl := New("matrix", []string{"KIN", "Name"}, [][]string{
		{"", "blank"},
		{"n/a", "text"},
		{" 12 ", "padded"},
		{"１３", "fullwidth"},
		{"14.0", "decimal"},
		{"15.5", "fraction"},
	})

	tests := []struct {
		kin  int
		want string
	}{
		{12, "padded"},
		{13, "fullwidth"},
		{14, "decimal"},
	}
	for _, tt := range tests {
		got, err := tbl.FindByIndex("KIN", tt.kin)
		if err != nil {
			t.Errorf("FindByIndex(%d) error = %v", tt.kin, err)
			continue
		}
		if got["Name"] != tt.want {
			t.Errorf("FindByIndex(%d) Name = %v, want %s", tt.kin, got["Name"], tt.want)
		}
	}

	if _, err := tbl.FindByIndex("KIN", 15); !IsNotFound(err) {
		t.Errorf("FindByIndex(15) error = %v, want not found", err)
	}
}

func TestFindByIndex_MissingColumn(t *testing.T) {
	_, err := matrixTable().FindByIndex("kin_number", 42)
	if !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("FindByIndex() error = %v, want ErrColumnNotFound", err)
	}
}

func TestFindByIndex_DoesNotShareRows(t *testing.T) {
	tbl := matrixTable()

	got, err := tbl.FindByIndex("KIN", 42)
	if err != nil {
		t.Fatalf("FindByIndex(42) error = %v", err)
	}
	got["Name"] = "changed"

	if tbl.Rows[1]["Name"] != "Yellow Self-Existing Seed" {
		t.Error("mutating a record changed the table")
	}
	if tbl.Rows[1]["KIN"] != "42" {
		t.Error("coercion leaked into the table")
	}
}

func TestFindByMonthDay(t *testing.T) {
	tbl := New("maya_birthday", []string{"國曆月日", "瑪雅生日"}, [][]string{
		{"03/05", "A"},
		{"3/6", "B"},
		{"12/25", "C"},
		{"12/25", "D"},
		{"garbage", "E"},
	})

	tests := []struct {
		name       string
		month, day int
		want       []Row
	}{
		{"zero padded cell", 3, 5, []Row{{"國曆月日": "03/05", "瑪雅生日": "A"}}},
		{"stripped cell", 3, 6, []Row{{"國曆月日": "3/6", "瑪雅生日": "B"}}},
		{"several rows", 12, 25, []Row{
			{"國曆月日": "12/25", "瑪雅生日": "C"},
			{"國曆月日": "12/25", "瑪雅生日": "D"},
		}},
		{"no match", 1, 1, []Row{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.FindByMonthDay("國曆月日", tt.month, tt.day)
			if err != nil {
				t.Fatalf("FindByMonthDay() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindByMonthDay(%d, %d) mismatch (-want +got):\n%s", tt.month, tt.day, diff)
			}
		})
	}
}

func TestFindByMonthDay_MissingColumn(t *testing.T) {
	_, err := matrixTable().FindByMonthDay("國曆月日", 1, 1)
	if !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("FindByMonthDay() error = %v, want ErrColumnNotFound", err)
	}
}

func TestParseMonthDay(t *testing.T) {
	tests := []struct {
		in         string
		month, day int
		ok         bool
	}{
		{"3/5", 3, 5, true},
		{"03/05", 3, 5, true},
		{" 12/31 ", 12, 31, true},
		{"3-5", 3, 5, true},
		{"3.5", 3, 5, true},
		{"3月5日", 3, 5, true},
		{"２／２９", 2, 29, true},
		{"2024-03-05", 3, 5, true},
		{"2024/3/5", 3, 5, true},
		{"13/1", 0, 0, false},
		{"1/32", 0, 0, false},
		{"1/0", 0, 0, false},
		{"", 0, 0, false},
		{"abc", 0, 0, false},
		{"1/2/3/4", 0, 0, false},
		{"03-05-24", 0, 0, false},
		{"03/05/2024", 0, 0, false},
		{"24-03-05", 0, 0, false},
	}

	for _, tt := range tests {
		month, day, ok := ParseMonthDay(tt.in)
		if ok != tt.ok || month != tt.month || day != tt.day {
			t.Errorf("ParseMonthDay(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.in, month, day, ok, tt.month, tt.day, tt.ok)
		}
	}
}

func TestMonthDayKey(t *testing.T) {
	if got := MonthDayKey(3, 5); got != "03/05" {
		t.Errorf("MonthDayKey(3, 5) = %q, want 03/05", got)
	}
	if got := MonthDayKey(12, 31); got != "12/31" {
		t.Errorf("MonthDayKey(12, 31) = %q, want 12/31", got)
	}
}

func TestNew_PadsShortRecords(t *testing.T) {
	tbl := New("t", []string{"\ufeffKIN", " Name "}, [][]string{{"1"}, {"2", "two", "extra"}})

	want := []string{"KIN", "Name"}
	if diff := cmp.Diff(want, tbl.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if tbl.Rows[0]["Name"] != "" {
		t.Errorf("short record Name = %q, want empty", tbl.Rows[0]["Name"])
	}
	if len(tbl.Rows[1]) != 2 {
		t.Errorf("long record has %d fields, want 2", len(tbl.Rows[1]))
	}
}

func TestSet(t *testing.T) {
	set := Set{}
	set.Add(matrixTable())
	set.Add(New("maya_birthday", []string{"國曆月日"}, nil))

	if _, err := set.Get("matrix"); err != nil {
		t.Errorf("Get(matrix) error = %v", err)
	}
	if _, err := set.Get("矩陣表"); !IsTableNotFound(err) {
		t.Errorf("Get(矩陣表) error = %v, want table not found", err)
	}

	want := []Summary{
		{Name: "matrix", Rows: 3, Columns: []string{"KIN", "Name", "Tone"}},
		{Name: "maya_birthday", Rows: 0, Columns: []string{"國曆月日"}},
	}
	if diff := cmp.Diff(want, set.Summaries()); diff != "" {
		t.Errorf("Summaries() mismatch (-want +got):\n%s", diff)
	}

	if head := matrixTable().Head(10); len(head) != 3 {
		t.Errorf("Head(10) returned %d rows, want 3", len(head))
	}
}
