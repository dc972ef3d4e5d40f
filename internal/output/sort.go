package output

import (
	"cmp"
	"fmt"
	"sort"
	"strings"

	"github.com/phyten/tagscan/internal/engine"
)

// SortKey is one --sort component; Desc reverses its order.
type SortKey struct {
	Name string
	Desc bool
}

type SortSpec struct {
	Keys []SortKey
}

var sortKeyAliases = map[string]string{
	"col":      "column",
	"language": "lang",
	"type":     "kind",
	"summary":  "title",
}

// ParseSortSpec parses a comma separated list such as "lang,-issue". A
// leading '-' sorts descending, '+' is accepted and ignored. "location"
// expands to file then line.
func ParseSortSpec(raw string) (SortSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SortSpec{}, nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]SortKey, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return SortSpec{}, fmt.Errorf("invalid sort key: empty segment")
		}
		desc := false
		switch token[0] {
		case '+':
			token = token[1:]
		case '-':
			desc = true
			token = token[1:]
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return SortSpec{}, fmt.Errorf("invalid sort key: sign without name")
		}
		name := strings.ToLower(token)
		if alias, ok := sortKeyAliases[name]; ok {
			name = alias
		}
		switch name {
		case "location", "loc":
			keys = append(keys, SortKey{Name: "file", Desc: desc}, SortKey{Name: "line", Desc: desc})
			continue
		case "file", "line", "column", "lang", "issue", "title", "marker", "kind":
		default:
			return SortSpec{}, fmt.Errorf("invalid sort key: %s", token)
		}
		keys = append(keys, SortKey{Name: name, Desc: desc})
	}
	return SortSpec{Keys: keys}, nil
}

// ApplySort orders items by spec, breaking ties by file, line and column.
// An empty spec leaves the engine's order untouched.
func ApplySort(items []engine.Item, spec SortSpec) {
	if len(spec.Keys) == 0 {
		return
	}
	keys := append(append([]SortKey{}, spec.Keys...), SortKey{Name: "file"}, SortKey{Name: "line"}, SortKey{Name: "column"})
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		for _, key := range keys {
			c := compareItems(a, b, key.Name)
			if c == 0 {
				continue
			}
			if key.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareItems(a, b *engine.Item, key string) int {
	switch key {
	case "file":
		return cmp.Compare(a.File, b.File)
	case "line":
		return cmp.Compare(a.Line, b.Line)
	case "column":
		return cmp.Compare(a.Column, b.Column)
	case "lang":
		return cmp.Compare(a.Lang, b.Lang)
	case "issue":
		return cmp.Compare(a.IssueNumber, b.IssueNumber)
	case "title":
		return cmp.Compare(a.Title, b.Title)
	case "marker":
		return cmp.Compare(a.Marker, b.Marker)
	case "kind":
		return cmp.Compare(a.Kind, b.Kind)
	}
	return 0
}
