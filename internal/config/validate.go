package config

import (
	"fmt"
	"strings"
	"time"

	engineopts "github.com/phyten/tagscan/internal/engine/opts"
)

const (
	minDebounce = 10 * time.Millisecond
	maxDebounce = time.Minute
)

func CanonicalizeColor(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "", "auto":
		return "auto", nil
	case "always", "never":
		return mode, nil
	default:
		return "", fmt.Errorf("invalid color: %s", raw)
	}
}

func NormalizeUI(values UISettings) (UISettings, error) {
	var err error
	values.Fields = strings.TrimSpace(values.Fields)
	if values.Output, err = engineopts.NormalizeOutput(values.Output); err != nil {
		return values, err
	}
	if values.Color, err = CanonicalizeColor(values.Color); err != nil {
		return values, err
	}
	if values.Truncate < 0 {
		return values, fmt.Errorf("truncate must be >= 0")
	}
	return values, nil
}

func NormalizeWatch(values WatchSettings) (WatchSettings, error) {
	if values.Debounce < minDebounce || values.Debounce > maxDebounce {
		return values, fmt.Errorf("debounce must be between %s and %s", minDebounce, maxDebounce)
	}
	return values, nil
}
