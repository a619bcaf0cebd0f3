// Package stats contains history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one table column. Numeric columns set right.
type column struct {
	title string
	right bool
}

// textTable collects rows and renders them with single-space gutters.
// Width is measured in terminal cells so wide runes stay aligned.
type textTable struct {
	cols   []column
	rows   [][]string
	widths []int
}

func newTextTable(cols ...column) *textTable {
	t := &textTable{cols: cols, widths: make([]int, len(cols))}
	for i, c := range cols {
		t.widths[i] = runewidth.StringWidth(c.title)
	}
	return t
}

// add appends a row. Missing cells render blank and extra cells are dropped.
func (t *textTable) add(cells ...string) {
	row := make([]string, len(t.cols))
	copy(row, cells)
	for i, cell := range row {
		t.widths[i] = max(t.widths[i], runewidth.StringWidth(cell))
	}
	t.rows = append(t.rows, row)
}

func (t *textTable) header() []string {
	titles := make([]string, len(t.cols))
	for i, c := range t.cols {
		titles[i] = c.title
	}
	return titles
}

func (t *textTable) line(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		gap := strings.Repeat(" ", t.widths[i]-runewidth.StringWidth(cell))
		if t.cols[i].right {
			parts[i] = gap + cell
		} else {
			parts[i] = cell + gap
		}
	}
	return strings.Join(parts, " ")
}

// lines returns the header followed by every row. A table without
// columns renders nothing.
func (t *textTable) lines() []string {
	if len(t.cols) == 0 {
		return nil
	}
	out := []string{t.line(t.header())}
	for _, row := range t.rows {
		out = append(out, t.line(row))
	}
	return out
}

func (t *textTable) writeTo(w io.Writer) error {
	for _, l := range t.lines() {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
