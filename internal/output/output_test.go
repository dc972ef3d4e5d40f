package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/tagscan/internal/engine"
	"github.com/phyten/tagscan/internal/termcolor"
)

var sampleItems = []engine.Item{
	{
		File:        "internal/app/main.go",
		Lang:        "go",
		Marker:      "@TODO",
		Kind:        "block comment",
		Line:        42,
		Column:      4,
		Title:       "refactor parser, handle \"quotes\"",
		Description: "and commas",
		Payload:     "refactor parser, handle \"quotes\"\nand commas",
		IssueNumber: 12,
	},
	{
		File:    "web/view.py",
		Lang:    "python",
		Marker:  "@TODO",
		Kind:    "line comment",
		Line:    7,
		Column:  10,
		Title:   "escape pipes | and <tags>",
		Payload: "escape pipes | and <tags>",
	},
}

func mustFields(t *testing.T, raw string) FieldSelection {
	t.Helper()
	sel, err := ResolveFields(raw)
	if err != nil {
		t.Fatalf("ResolveFields(%q) failed: %v", raw, err)
	}
	return sel
}

func TestResolveFields(t *testing.T) {
	def := mustFields(t, "")
	if diff := cmp.Diff(DefaultFields, def.Keys()); diff != "" {
		t.Fatalf("default fields mismatch (-want +got):\n%s", diff)
	}
	sel := mustFields(t, " File, col ,TYPE,desc ")
	if diff := cmp.Diff([]string{"file", "column", "kind", "description"}, sel.Keys()); diff != "" {
		t.Fatalf("aliases not resolved (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"FILE", "COLUMN", "KIND", "DESCRIPTION"}, Headers(sel.Fields)); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	for _, bad := range []string{"file,,line", "author"} {
		if _, err := ResolveFields(bad); err == nil {
			t.Fatalf("ResolveFields(%q) should fail", bad)
		}
	}
}

func TestRowValues(t *testing.T) {
	sel := mustFields(t, "location,issue,line,marker")
	got := RowValues(sampleItems[0], sel.Fields)
	want := []string{"internal/app/main.go:42:4", "#12", "42", "@TODO"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	if v := FieldValue(sampleItems[1], "issue"); v != "" {
		t.Fatalf("missing issue should render empty, got %q", v)
	}
	linked := sampleItems[0]
	linked.URL = "https://example.com/o/r/blob/abc/internal/app/main.go#L42"
	linked.IssueURL = "https://example.com/o/r/issues/12"
	got = RowValues(linked, mustFields(t, "link,issue_url").Fields)
	if diff := cmp.Diff([]string{linked.URL, linked.IssueURL}, got); diff != "" {
		t.Fatalf("link columns mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleItems, mustFields(t, "location,title,payload")); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	want := "LOCATION,TITLE,PAYLOAD\r\n" +
		"internal/app/main.go:42:4,\"refactor parser, handle \"\"quotes\"\"\",\"refactor parser, handle \"\"quotes\"\"\r\nand commas\"\r\n" +
		"web/view.py:7:10,escape pipes | and <tags>,escape pipes | and <tags>\r\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTSV(&buf, sampleItems[1:], mustFields(t, "file,line,lang")); err != nil {
		t.Fatalf("WriteTSV failed: %v", err)
	}
	if diff := cmp.Diff("FILE\tLINE\tLANG\nweb/view.py\t7\tpython\n", buf.String()); diff != "" {
		t.Fatalf("tsv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, sampleItems); err != nil {
		t.Fatalf("WriteNDJSON failed: %v", err)
	}
	output := buf.String()
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	if len(lines) != len(sampleItems) {
		t.Fatalf("expected %d lines, got %d", len(sampleItems), len(lines))
	}
	for i, line := range lines {
		var item engine.Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			t.Fatalf("failed to decode line %d: %v", i, err)
		}
		if diff := cmp.Diff(sampleItems[i], item); diff != "" {
			t.Fatalf("line %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if strings.Contains(output, "\\u003c") {
		t.Fatal("HTML characters should not be escaped in NDJSON output")
	}
	if strings.Contains(lines[1], "\"issue\"") {
		t.Fatal("zero issue should be omitted")
	}
	if strings.Contains(output, "\"url\"") {
		t.Fatal("empty links should be omitted")
	}
}

func TestWriteJSONIncludesErrors(t *testing.T) {
	res := &engine.Result{
		Items:      sampleItems[:1],
		Total:      1,
		Files:      3,
		Errors:     []engine.ItemError{{File: "c/broken.c", Line: 2, Stage: "scan", Message: "unterminated comment"}},
		ErrorCount: 1,
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var decoded engine.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(*res, decoded); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMarkdownTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdownTable(&buf, sampleItems, mustFields(t, "location,line,payload")); err != nil {
		t.Fatalf("WriteMarkdownTable failed: %v", err)
	}
	output := buf.String()
	want := "| LOCATION | LINE | PAYLOAD |\n" +
		"| --- | ---: | --- |\n" +
		"| `internal/app/main.go:42:4` | 42 | refactor parser, handle \"quotes\"<br>and commas |\n" +
		"| `web/view.py:7:10` | 7 | escape pipes \\| and <tags> |\n"
	if diff := cmp.Diff(want, output); diff != "" {
		t.Fatalf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTablePlain(t *testing.T) {
	var buf bytes.Buffer
	sel := mustFields(t, "file,line,title")
	if err := WriteTable(&buf, sampleItems, sel, TableOptions{Truncate: 12}); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	want := "FILE                  LINE  TITLE\n" +
		"internal/app/main.go    42  refactor pa…\n" +
		"web/view.py              7  escape pipe…\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTableColorKeepsAlignment(t *testing.T) {
	var plain, colored bytes.Buffer
	sel := mustFields(t, "location,lang,title")
	if err := WriteTable(&plain, sampleItems, sel, TableOptions{}); err != nil {
		t.Fatal(err)
	}
	opts := TableOptions{Color: true, Palette: termcolor.NewPalette(termcolor.SchemeDark, termcolor.ProfileBasic8)}
	if err := WriteTable(&colored, sampleItems, sel, opts); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatal("expected SGR sequences in colored output")
	}
	stripped := ansiPattern.ReplaceAllString(colored.String(), "")
	if diff := cmp.Diff(plain.String(), stripped); diff != "" {
		t.Fatalf("colored table misaligned (-plain +stripped):\n%s", diff)
	}
}

func TestWriteDispatch(t *testing.T) {
	res := &engine.Result{Items: sampleItems}
	sel := mustFields(t, "")
	for _, format := range []string{"table", "tsv", "csv", "json", "ndjson", "markdown"} {
		var buf bytes.Buffer
		if err := Write(&buf, format, res, sel, TableOptions{}); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("%s: empty output", format)
		}
	}
	if err := Write(&bytes.Buffer{}, "xml", res, sel, TableOptions{}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestWriteColumns(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{{"c", "//", "/* */"}, {"python", "#", ""}}
	if err := WriteColumns(&buf, []string{"LANGUAGE", "LINE", "BLOCK"}, rows); err != nil {
		t.Fatal(err)
	}
	want := "LANGUAGE  LINE  BLOCK\n" +
		"c         //    /* */\n" +
		"python    #     \n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}
