// Package layout arranges rendered listing strings into the widest
// multi-column grid that fits a total width budget.
package layout

import (
	"strings"

	"github.com/harrison/livels/internal/term"
)

// Config bounds the grid the solver may produce.
type Config struct {
	// MaxTotalWidth is the budget the summed column widths must fit in.
	MaxTotalWidth int
	// MinColumnWidth is the floor for every column's width.
	MinColumnWidth int
	// Padding is added to each column's longest item.
	Padding int
	// MaxColumns caps the number of columns tried.
	MaxColumns int
	// RowWise assigns items left-to-right across rows instead of filling
	// column 0 first.
	RowWise bool
	// UniformWidth gives all but the last column the same width.
	UniformWidth bool
}

// DefaultConfig mirrors the classic four-column listing shape.
func DefaultConfig() Config {
	return Config{
		MaxTotalWidth:  100,
		MinColumnWidth: 16,
		Padding:        5,
		MaxColumns:     4,
	}
}

// Lines lays the rendered items out and returns one string per terminal
// row. Column counts are tried from cfg.MaxColumns down to one; the first
// count whose summed widths fit the budget wins, and a single column is
// always accepted. Widths are measured on visible characters only, so
// embedded colour codes do not distort the grid.
func Lines(items []string, cfg Config) []string {
	if len(items) == 0 {
		return nil
	}

	maxColumns := cfg.MaxColumns
	if maxColumns < 1 {
		maxColumns = 1
	}

	var rows [][]string
	var widths []int
	for columns := maxColumns; columns >= 1; columns-- {
		r, w, ok := arrange(items, columns, cfg)
		if ok {
			rows, widths = r, w
			break
		}
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		// Slight leading indent only when there are multiple columns.
		if len(row) > 1 {
			b.WriteString(" ")
		}
		for i, cell := range row[:len(row)-1] {
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-term.VisibleWidth(cell)))
		}
		b.WriteString(row[len(row)-1])
		lines = append(lines, b.String())
	}
	return lines
}

// arrange assigns items to a grid with the given column count. Reports
// false when the summed column widths exceed the budget; one column always
// succeeds.
func arrange(items []string, columns int, cfg Config) ([][]string, []int, bool) {
	if columns == 1 {
		rows := make([][]string, len(items))
		for i, s := range items {
			rows[i] = []string{s}
		}
		return rows, []int{columnWidth(items, cfg)}, true
	}

	cells := append([]string(nil), items...)
	rowCount := (len(cells) + columns - 1) / columns

	// Column-major filling can leave trailing columns completely empty.
	// Spread blank filler cells into the next-to-last columns (never the
	// very last) so the grid stays rectangular with no hollow column.
	if !cfg.RowWise {
		filledColumns := (len(cells) + rowCount - 1) / rowCount
		missingColumns := columns - filledColumns
		if missingColumns > 0 {
			missing := rowCount*columns - 1 - len(cells)
			for i := 0; i < missing; i++ {
				column := columns - 1 - missing + i
				at := rowCount*column + rowCount - 1
				cells = append(cells, "")
				copy(cells[at+1:], cells[at:])
				cells[at] = ""
			}
		}
	}

	// Pad to a full rectangle.
	for len(cells) < rowCount*columns {
		cells = append(cells, "")
	}

	columnAt := func(c int) []string {
		if cfg.RowWise {
			col := make([]string, 0, rowCount)
			for i := c; i < len(cells); i += columns {
				col = append(col, cells[i])
			}
			return col
		}
		return cells[c*rowCount : (c+1)*rowCount]
	}

	widths := make([]int, columns)
	for c := range widths {
		widths[c] = columnWidth(columnAt(c), cfg)
	}

	if cfg.UniformWidth {
		uniform := 0
		for _, w := range widths[:columns-1] {
			if w > uniform {
				uniform = w
			}
		}
		for i := 0; i < columns-1; i++ {
			widths[i] = uniform
		}
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	if total > cfg.MaxTotalWidth {
		return nil, nil, false
	}

	rows := make([][]string, rowCount)
	for r := range rows {
		row := make([]string, 0, columns)
		if cfg.RowWise {
			row = append(row, cells[r*columns:(r+1)*columns]...)
		} else {
			for i := r; i < rowCount*columns; i += rowCount {
				row = append(row, cells[i])
			}
		}
		rows[r] = row
	}
	return rows, widths, true
}

// columnWidth is the padded width of the longest item, floored at the
// configured minimum.
func columnWidth(items []string, cfg Config) int {
	width := 0
	for _, s := range items {
		if w := term.VisibleWidth(s); w > width {
			width = w
		}
	}
	width += cfg.Padding
	if width < cfg.MinColumnWidth {
		width = cfg.MinColumnWidth
	}
	return width
}
