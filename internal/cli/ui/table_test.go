package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

// column returns the display column at which sub starts in line.
func column(t *testing.T, line, sub string) int {
	t.Helper()
	i := strings.Index(line, sub)
	if i < 0 {
		t.Fatalf("%q not found in %q", sub, line)
	}
	return runewidth.StringWidth(line[:i])
}

func TestRenderFields(t *testing.T) {
	out := RenderFields([]string{"KIN", "圖騰", "missing"}, map[string]string{
		"KIN":  "164",
		"圖騰":   "黃種子",
		"note": "not listed",
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if column(t, lines[0], "164") != column(t, lines[1], "黃種子") {
		t.Errorf("values not aligned:\n%s", out)
	}
	if strings.Contains(out, "not listed") {
		t.Errorf("unlisted key rendered:\n%s", out)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"國曆月日", "瑪雅生日"}, []map[string]string{
		{"國曆月日": "1/1", "瑪雅生日": "磁性的月 1日"},
		{"國曆月日": "12/31", "瑪雅生日": strings.Repeat("長", 50)},
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if column(t, lines[0], "瑪雅生日") != column(t, lines[2], "磁性的月") {
		t.Errorf("columns not aligned:\n%s", out)
	}
	if !strings.Contains(lines[3], "…") {
		t.Errorf("long cell not truncated: %q", lines[3])
	}
	if w := runewidth.StringWidth(lines[3]); w > 2*MaxCellWidth+2 {
		t.Errorf("row width = %d", w)
	}
}

func TestRenderTable_NoColumns(t *testing.T) {
	if got := RenderTable(nil, nil); got != "" {
		t.Errorf("RenderTable(nil) = %q, want empty", got)
	}
}

func TestStringify(t *testing.T) {
	got := Stringify(map[string]any{"KIN": 260, "Name": "X"})
	if got["KIN"] != "260" || got["Name"] != "X" {
		t.Errorf("Stringify() = %v", got)
	}
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	PrintWarning(&buf, "no birthday for %s", "02/30")
	PrintInfo(&buf, "loaded %d tables", 2)

	out := buf.String()
	for _, want := range []string{"no birthday for 02/30", "loaded 2 tables"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
