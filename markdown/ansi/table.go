package ansi

import (
	"bytes"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"git.home.luguber.info/inful/docmark/markdown"
)

// Cells and rows travel to Table as text joined by ASCII unit and record
// separators, which never occur in rendered markdown.
const (
	cellSep = '\x1f'
	rowSep  = '\x1e'
)

func splitRows(data []byte) [][]string {
	var rows [][]string
	for _, row := range bytes.Split(data, []byte{rowSep}) {
		if len(row) == 0 {
			continue
		}
		cells := strings.Split(string(row), string(cellSep))
		if cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		rows = append(rows, cells)
	}
	return rows
}

// displayWidth is the number of terminal columns s occupies once escape
// sequences are removed.
func displayWidth(s string) int {
	return runewidth.StringWidth(xansi.Strip(s))
}

func pad(s string, width int, align markdown.CellAlignment) string {
	gap := width - displayWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case markdown.TableAlignmentRight:
		return strings.Repeat(" ", gap) + s
	case markdown.TableAlignmentCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	}
	return s + strings.Repeat(" ", gap)
}

func writeTable(out *bytes.Buffer, styles *Styles, header, body [][]string, columns []markdown.CellAlignment) {
	widths := make([]int, len(columns))
	for _, rows := range [][][]string{header, body} {
		for _, row := range rows {
			for i, cell := range row {
				if i < len(widths) {
					widths[i] = max(widths[i], displayWidth(cell))
				}
			}
		}
	}

	sep := " " + styles.Border.Render("│") + " "
	writeRow := func(row []string) {
		cells := make([]string, len(columns))
		for i := range columns {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = pad(cell, widths[i], columns[i])
		}
		out.WriteString(strings.TrimRight(strings.Join(cells, sep), " "))
		out.WriteByte('\n')
	}

	for _, row := range header {
		writeRow(row)
	}
	if len(header) > 0 {
		rules := make([]string, len(widths))
		for i, w := range widths {
			rules[i] = strings.Repeat("─", w)
		}
		out.WriteString(styles.Border.Render(strings.Join(rules, "─┼─")))
		out.WriteByte('\n')
	}
	for _, row := range body {
		writeRow(row)
	}
}
