package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// MaxCellWidth is the widest a cell may render before it is truncated.
const MaxCellWidth = 40

// Truncate shortens s to at most width display columns.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// RenderFields renders one record as aligned "key  value" lines, in the
// order of keys. Keys missing from values render an empty value.
//
// Widths are measured in display columns so CJK headers line up.
func RenderFields(keys []string, values map[string]string) string {
	width := 0
	for _, k := range keys {
		if w := runewidth.StringWidth(k); w > width {
			width = w
		}
	}

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Styles.Key.Render(runewidth.FillRight(k, width)))
		b.WriteString("  ")
		b.WriteString(values[k])
	}
	return b.String()
}

// RenderTable renders a header and rows as aligned columns.
func RenderTable(columns []string, rows []map[string]string) string {
	if len(columns) == 0 {
		return ""
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(Truncate(c, MaxCellWidth))
	}
	for _, row := range rows {
		for i, c := range columns {
			if w := runewidth.StringWidth(Truncate(row[c], MaxCellWidth)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cell func(i int) string) string {
		parts := make([]string, len(columns))
		for i := range columns {
			parts[i] = runewidth.FillRight(Truncate(cell(i), MaxCellWidth), widths[i])
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(Styles.Bold.Render(line(func(i int) string { return columns[i] })))

	rule := make([]string, len(columns))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	b.WriteString("\n" + Styles.Muted.Render(strings.Join(rule, "  ")))

	for _, row := range rows {
		b.WriteString("\n" + line(func(i int) string { return row[columns[i]] }))
	}
	return b.String()
}

// Stringify converts record values to strings for rendering.
func Stringify(rec map[string]any) map[string]string {
	out := make(map[string]string, len(rec))
	for k, v := range rec {
		out[k] = fmt.Sprint(v)
	}
	return out
}
