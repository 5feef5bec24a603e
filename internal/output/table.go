package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table buffers rows and renders them as borderless, left-aligned columns.
type Table struct {
	tw      *tablewriter.Table
	headers []string
	widths  map[int]int
	rows    [][]string
	quiet   bool
}

// NewTable creates a table on the printer's output. Quiet printers render
// nothing.
func (p *Printer) NewTable(headers []string) *Table {
	left := tw.CellAlignment{Global: tw.AlignLeft}
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{Formatting: tw.CellFormatting{AutoFormat: tw.On}, Alignment: left},
			Row:    tw.CellConfig{Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone}, Alignment: left},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders:  tw.BorderNone,
			Settings: tw.Settings{Separators: tw.Separators{ShowHeader: tw.Off}},
		}),
	)
	return &Table{tw: table, headers: headers, widths: map[int]int{}, quiet: p.quiet}
}

// Limit caps the display width of column col. Longer cells are cut on a
// rune boundary and end with an ellipsis; wide runes count double.
func (t *Table) Limit(col, width int) *Table {
	if width > 0 {
		t.widths[col] = width
	}
	return t
}

// AddRow adds a row. Newlines inside cells are flattened so a row stays on
// one line.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(row))
	for i, cell := range row {
		cell = strings.Join(strings.Fields(cell), " ")
		if w, ok := t.widths[i]; ok {
			cell = Truncate(cell, w)
		}
		cells[i] = cell
	}
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table
func (t *Table) Render() {
	if t.quiet {
		return
	}
	t.tw.Header(t.headers)
	t.tw.Bulk(t.rows)
	t.tw.Render()
}

// Truncate shortens s to at most width display cells.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
