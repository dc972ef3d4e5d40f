package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phyten/tagscan/internal/engine"
)

type Field struct {
	Key    string
	Header string
}

type FieldSelection struct {
	Fields []Field
}

// Keys returns the selected field keys in display order.
func (s FieldSelection) Keys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

var fieldHeaders = map[string]string{
	"file":        "FILE",
	"line":        "LINE",
	"column":      "COLUMN",
	"location":    "LOCATION",
	"lang":        "LANG",
	"marker":      "MARKER",
	"kind":        "KIND",
	"issue":       "ISSUE",
	"title":       "TITLE",
	"description": "DESCRIPTION",
	"payload":     "PAYLOAD",
	"url":         "URL",
	"issue_url":   "ISSUE_URL",
}

var fieldAliases = map[string]string{
	"col":      "column",
	"loc":      "location",
	"language": "lang",
	"type":     "kind",
	"summary":  "title",
	"desc":     "description",
	"body":     "payload",
	"text":     "payload",
	"link":     "url",
}

// DefaultFields is used when no --fields value is given.
var DefaultFields = []string{"location", "lang", "issue", "title"}

// ResolveFields parses a comma separated field list. An empty list selects
// DefaultFields.
func ResolveFields(raw string) (FieldSelection, error) {
	raw = strings.TrimSpace(raw)
	keys := DefaultFields
	if raw != "" {
		keys = strings.Split(raw, ",")
	}
	sel := FieldSelection{Fields: make([]Field, 0, len(keys))}
	for _, part := range keys {
		name := strings.TrimSpace(part)
		if name == "" {
			return FieldSelection{}, fmt.Errorf("invalid fields: empty entry")
		}
		key := strings.ToLower(name)
		if canon, ok := fieldAliases[key]; ok {
			key = canon
		}
		header, ok := fieldHeaders[key]
		if !ok {
			return FieldSelection{}, fmt.Errorf("unknown field: %s", name)
		}
		sel.Fields = append(sel.Fields, Field{Key: key, Header: header})
	}
	return sel, nil
}

// Headers returns the column headers for fields.
func Headers(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Header
	}
	return out
}

// RowValues formats it for the given fields.
func RowValues(it engine.Item, fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = FieldValue(it, f.Key)
	}
	return out
}

func FieldValue(it engine.Item, key string) string {
	switch key {
	case "file":
		return it.File
	case "line":
		return strconv.Itoa(it.Line)
	case "column":
		return strconv.Itoa(it.Column)
	case "location":
		return fmt.Sprintf("%s:%d:%d", it.File, it.Line, it.Column)
	case "lang":
		return it.Lang
	case "marker":
		return it.Marker
	case "kind":
		return it.Kind
	case "issue":
		if it.IssueNumber <= 0 {
			return ""
		}
		return "#" + strconv.Itoa(it.IssueNumber)
	case "title":
		return it.Title
	case "description":
		return it.Description
	case "payload":
		return it.Payload
	case "url":
		return it.URL
	case "issue_url":
		return it.IssueURL
	default:
		return ""
	}
}
