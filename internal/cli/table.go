package cli

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// columnGap separates table columns.
const columnGap = "  "

// table renders left-aligned text columns sized by display width, so
// accented figure titles line up.
type table struct {
	header []string
	rows   [][]string

	// maxWidth clips the last column so lines fit; 0 disables clipping.
	maxWidth int
}

func newTable(header ...string) *table {
	return &table{header: header}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) error {
	all := t.rows
	if len(t.header) > 0 {
		all = append([][]string{t.header}, t.rows...)
	}
	if len(all) == 0 {
		return nil
	}

	cols := 0
	for _, row := range all {
		cols = max(cols, len(row))
	}
	widths := make([]int, cols)
	for _, row := range all {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	for _, row := range all {
		used := 0
		for i, cell := range row {
			last := i == len(row)-1
			if last {
				if t.maxWidth > 0 && used < t.maxWidth {
					cell = runewidth.Truncate(cell, t.maxWidth-used, "…")
				}
				sb.WriteString(cell)
				break
			}
			cell = runewidth.FillRight(cell, widths[i])
			sb.WriteString(cell)
			sb.WriteString(columnGap)
			used += widths[i] + len(columnGap)
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// terminalWidth returns the column count of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 0
	}
	return width
}
