package output

import (
	"io"
	"strings"

	"github.com/phyten/tagscan/internal/engine"
)

// WriteMarkdownTable renders items as a GitHub Flavored Markdown table.
// Locations and file names are rendered as inline code.
func WriteMarkdownTable(w io.Writer, items []engine.Item, sel FieldSelection) error {
	var b strings.Builder
	headers := Headers(sel.Fields)
	writeMarkdownRow(&b, headers)
	sep := make([]string, len(headers))
	for i, f := range sel.Fields {
		sep[i] = "---"
		if f.Key == "line" || f.Key == "column" || f.Key == "issue" {
			sep[i] = "---:"
		}
	}
	writeMarkdownRow(&b, sep)
	for _, it := range items {
		row := RowValues(it, sel.Fields)
		for i, f := range sel.Fields {
			row[i] = markdownCell(f.Key, row[i])
		}
		writeMarkdownRow(&b, row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func markdownCell(key, s string) string {
	if s == "" {
		return ""
	}
	if key == "location" || key == "file" {
		return "`" + strings.ReplaceAll(s, "`", "'") + "`"
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "<br>")
}
