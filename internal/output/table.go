package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/phyten/tagscan/internal/engine"
	"github.com/phyten/tagscan/internal/termcolor"
	"github.com/phyten/tagscan/internal/textutil"
)

const columnGap = "  "

// TableOptions controls the human-readable table.
type TableOptions struct {
	// Truncate limits free-text columns (title, description, payload) to N
	// display cells; 0 means unlimited.
	Truncate int
	Color    bool
	Palette  termcolor.Palette
}

var freeTextFields = map[string]bool{"title": true, "description": true, "payload": true}

var numericFields = map[string]bool{"line": true, "column": true}

// WriteTable renders items as space aligned columns. Widths are measured in
// terminal cells, so wide runes and color sequences line up.
func WriteTable(w io.Writer, items []engine.Item, sel FieldSelection, opts TableOptions) error {
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, Headers(sel.Fields))
	for _, it := range items {
		row := RowValues(it, sel.Fields)
		for i, f := range sel.Fields {
			row[i] = textutil.SingleLine(row[i])
			if opts.Truncate > 0 && freeTextFields[f.Key] {
				row[i] = textutil.TruncateByWidth(row[i], opts.Truncate, "…")
			}
		}
		rows = append(rows, row)
	}

	return writeAligned(w, rows, func(r, i int, cell string) string {
		key := sel.Fields[i].Key
		style := opts.Palette.ForField(key)
		if r == 0 {
			style = opts.Palette.Header
		}
		return termcolor.Apply(style, cell, opts.Color)
	}, func(i int) bool { return numericFields[sel.Fields[i].Key] })
}

// WriteColumns writes a plain aligned table with a header row.
func WriteColumns(w io.Writer, headers []string, rows [][]string) error {
	all := make([][]string, 0, len(rows)+1)
	all = append(all, headers)
	all = append(all, rows...)
	return writeAligned(w, all, nil, nil)
}

// writeAligned pads each column of rows to its widest cell. decorate, when
// set, may add escape sequences to a cell; rightAlign marks numeric columns.
// Row 0 is the header.
func writeAligned(w io.Writer, rows [][]string, decorate func(r, i int, cell string) string, rightAlign func(i int) bool) error {
	if len(rows) == 0 {
		return nil
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := textutil.VisibleWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for r, row := range rows {
		for i, cell := range row {
			if decorate != nil {
				cell = decorate(r, i, cell)
			}
			last := i == len(row)-1
			switch {
			case r > 0 && rightAlign != nil && rightAlign(i):
				cell = textutil.PadLeft(cell, widths[i])
			case !last:
				cell = textutil.PadRight(cell, widths[i])
			}
			b.WriteString(cell)
			if !last {
				b.WriteString(columnGap)
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Write renders res in the named format. format must already be normalized
// (see opts.NormalizeOutput).
func Write(w io.Writer, format string, res *engine.Result, sel FieldSelection, table TableOptions) error {
	switch format {
	case "table", "":
		return WriteTable(w, res.Items, sel, table)
	case "tsv":
		return WriteTSV(w, res.Items, sel)
	case "csv":
		return WriteCSV(w, res.Items, sel)
	case "json":
		return WriteJSON(w, res)
	case "ndjson":
		return WriteNDJSON(w, res.Items)
	case "markdown":
		return WriteMarkdownTable(w, res.Items, sel)
	default:
		return fmt.Errorf("unsupported output: %s", format)
	}
}
