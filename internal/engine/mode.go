package engine

import (
	"fmt"
	"strings"
)

// Mode は issue 番号の有無でアノテーションを絞り込む。
const (
	ModeAll       = "all"
	ModePending   = "pending"   // (#N) の付いていないもの
	ModeProcessed = "processed" // 既に issue 番号を持つもの
)

var modeAliases = map[string]string{
	"":          ModeAll,
	"all":       ModeAll,
	"pending":   ModePending,
	"p":         ModePending,
	"processed": ModeProcessed,
	"issued":    ModeProcessed,
	"issues":    ModeProcessed,
	"i":         ModeProcessed,
}

// ParseMode は --mode の値を正規化する。空文字は all とみなす。
func ParseMode(raw string) (string, error) {
	mode, ok := modeAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("invalid --mode: %s (want all|pending|processed)", raw)
	}
	return mode, nil
}

func filterByMode(items []Item, mode string) []Item {
	if mode == ModeAll {
		return items
	}
	kept := items[:0]
	for _, it := range items {
		if (it.IssueNumber > 0) == (mode == ModeProcessed) {
			kept = append(kept, it)
		}
	}
	return kept
}
