package display

import (
	"strings"
	"unicode/utf8"
)

// Table renders the weekly board as an aligned text table with optional
// color support. Annotation lines (molad, Rosh Chodesh, Birkat HaLevana,
// tekufa) are attached as footers below the rows.
type Table struct {
	headers []string
	rows    [][]string
	footers []string
	// highlightRow is the 0-based row index to highlight (typically the
	// candle lighting row). -1 = none.
	highlightRow int
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:      headers,
		highlightRow: -1,
	}
}

// AddRow appends a row of values. The number of values should match the number of headers.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// AddFooter appends a free-form annotation line rendered below the rows.
// Callers color the line before adding it.
func (t *Table) AddFooter(line string) {
	t.footers = append(t.footers, line)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlightRow = idx
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	// Column widths count runes, not bytes. Labels carry accented and
	// Hebrew characters, so byte lengths would misalign columns.
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder

	// Header row.
	headerLine := formatRow(t.headers, widths)
	sb.WriteString("  " + Bold(headerLine) + "\n")

	// Separator row using Unicode box-drawing dashes.
	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sepLine := "  " + strings.Join(sepParts, "  ")
	sb.WriteString(Dim(sepLine) + "\n")

	// Data rows.
	for i, row := range t.rows {
		line := formatRow(row, widths)
		if i == t.highlightRow {
			sb.WriteString("  " + Accent(line) + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}

	// Annotation block.
	if len(t.footers) > 0 {
		sb.WriteString("\n")
		for _, line := range t.footers {
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}

// formatRow formats a row of cells using the given column widths.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = pad(cell, w)
	}
	return strings.Join(parts, "  ")
}

// pad right-pads cell with spaces to width columns, counting runes.
func pad(cell string, width int) string {
	if n := width - utf8.RuneCountInString(cell); n > 0 {
		return cell + strings.Repeat(" ", n)
	}
	return cell
}
