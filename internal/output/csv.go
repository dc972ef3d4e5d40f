package output

import (
	"encoding/csv"
	"io"

	"github.com/phyten/tagscan/internal/engine"
)

// WriteCSV renders items as RFC 4180 CSV with CRLF line endings.
func WriteCSV(w io.Writer, items []engine.Item, sel FieldSelection) error {
	return writeDelimited(w, items, sel, ',', true)
}

// WriteTSV is WriteCSV with tabs and LF endings. Fields containing tabs,
// quotes or newlines are quoted.
func WriteTSV(w io.Writer, items []engine.Item, sel FieldSelection) error {
	return writeDelimited(w, items, sel, '\t', false)
}

func writeDelimited(w io.Writer, items []engine.Item, sel FieldSelection, comma rune, crlf bool) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma
	writer.UseCRLF = crlf
	if err := writer.Write(Headers(sel.Fields)); err != nil {
		return err
	}
	for _, it := range items {
		if err := writer.Write(RowValues(it, sel.Fields)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
