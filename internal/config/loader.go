package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	engineopts "github.com/phyten/tagscan/internal/engine/opts"
)

var scanKeyMap = map[string]string{
	"marker":          "marker",
	"annotation":      "marker",
	"policy":          "policy",
	"path":            "path",
	"paths":           "path",
	"exclude":         "exclude",
	"excludes":        "exclude",
	"path_regex":      "path_regex",
	"path_regexes":    "path_regex",
	"exclude_typical": "exclude_typical",
	"lang":            "lang",
	"langs":           "lang",
	"languages":       "lang",
	"detect_langs":    "lang",
	"max_file_bytes":  "max_file_bytes",
	"max_bytes":       "max_file_bytes",
	"jobs":            "jobs",
	"repo":            "repo",
	"no_prefilter":    "no_prefilter",
	"with_links":      "with_links",
	"links":           "with_links",
	"mode":            "mode",
}

var uiKeyMap = map[string]string{
	"output":   "output",
	"format":   "output",
	"color":    "color",
	"fields":   "fields",
	"truncate": "truncate",
	"sort":     "sort",
}

var watchKeyMap = map[string]string{
	"debounce": "debounce",
}

// Load は拡張子に応じて YAML / TOML / JSON (コメント付き JSON を含む) を読み込む。
func Load(path string) (Config, error) {
	var cfg Config
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var raw map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json", ".jsonc":
		var std []byte
		if std, err = hujson.Standardize(data); err == nil {
			err = json.Unmarshal(std, &raw)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw == nil {
		return cfg, nil
	}
	decoded, err := decodeConfigMap(raw)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return decoded, nil
}

func decodeConfigMap(raw map[string]any) (Config, error) {
	var cfg Config
	sections := map[string]map[string]any{"scan": {}, "ui": {}, "watch": {}}
	keyMaps := map[string]map[string]string{"scan": scanKeyMap, "ui": uiKeyMap, "watch": watchKeyMap}

	for key, value := range raw {
		norm := normalizeKey(key)
		if allowed, ok := keyMaps[norm]; ok {
			sub, err := toStringKeyMap(value)
			if err != nil {
				return cfg, fmt.Errorf("%s: %w", norm, err)
			}
			if err := fillSection(sections[norm], sub, allowed, norm); err != nil {
				return cfg, err
			}
			continue
		}
		placed := false
		for _, name := range []string{"scan", "ui", "watch"} {
			if canonical, ok := keyMaps[name][norm]; ok {
				sections[name][canonical] = value
				placed = true
				break
			}
		}
		if !placed {
			return cfg, fmt.Errorf("unknown config key: %s", key)
		}
	}

	if err := assign(sections["scan"], scanSetters(&cfg.Scan)); err != nil {
		return cfg, fmt.Errorf("scan: %w", err)
	}
	if err := assign(sections["ui"], uiSetters(&cfg.UI)); err != nil {
		return cfg, fmt.Errorf("ui: %w", err)
	}
	if err := assign(sections["watch"], watchSetters(&cfg.Watch)); err != nil {
		return cfg, fmt.Errorf("watch: %w", err)
	}
	return cfg, nil
}

func fillSection(dst, src map[string]any, allowed map[string]string, section string) error {
	for key, value := range src {
		canonical, ok := allowed[normalizeKey(key)]
		if !ok {
			return fmt.Errorf("unknown %s key: %s", section, key)
		}
		dst[canonical] = value
	}
	return nil
}

// setter は 1 つのキーの値を検証して設定先へ書き込む。
type setter func(value any, key string) error

func assign(section map[string]any, setters map[string]setter) error {
	for key, value := range section {
		set, ok := setters[key]
		if !ok {
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := set(value, key); err != nil {
			return err
		}
	}
	return nil
}

func scanSetters(dst *ScanConfig) map[string]setter {
	return map[string]setter{
		"marker":          stringInto(&dst.Marker),
		"policy":          stringInto(&dst.Policy),
		"path":            listInto(&dst.Paths),
		"exclude":         listInto(&dst.Excludes),
		"path_regex":      listInto(&dst.PathRegex),
		"exclude_typical": boolInto(&dst.ExcludeTypical),
		"lang":            listInto(&dst.DetectLangs),
		"max_file_bytes":  intInto(&dst.MaxFileBytes),
		"jobs":            intInto(&dst.Jobs),
		"repo":            stringInto(&dst.Repo),
		"no_prefilter":    boolInto(&dst.NoPrefilter),
		"with_links":      boolInto(&dst.WithLinks),
		"mode":            stringInto(&dst.Mode),
	}
}

func uiSetters(dst *UIConfig) map[string]setter {
	return map[string]setter{
		"output":   stringInto(&dst.Output),
		"color":    stringInto(&dst.Color),
		"fields":   stringInto(&dst.Fields),
		"truncate": intInto(&dst.Truncate),
		"sort":     stringInto(&dst.Sort),
	}
}

func watchSetters(dst *WatchConfig) map[string]setter {
	return map[string]setter{
		"debounce": durationInto(&dst.Debounce),
	}
}

func stringInto(dst **string) setter {
	return func(value any, key string) error {
		s, err := expectString(value, key)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		*dst = &s
		return nil
	}
}

func listInto(dst **[]string) setter {
	return func(value any, key string) error {
		list, err := expectStringList(value, key)
		if err != nil {
			return err
		}
		*dst = &list
		return nil
	}
}

func boolInto(dst **bool) setter {
	return func(value any, key string) error {
		b, err := expectBool(value, key)
		if err != nil {
			return err
		}
		*dst = &b
		return nil
	}
}

func intInto(dst **int) setter {
	return func(value any, key string) error {
		n, err := expectInt(value, key)
		if err != nil {
			return err
		}
		*dst = &n
		return nil
	}
}

func durationInto(dst **time.Duration) setter {
	return func(value any, key string) error {
		d, err := expectDuration(value, key)
		if err != nil {
			return err
		}
		*dst = &d
		return nil
	}
}

func expectString(value any, field string) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%s cannot be null", field)
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string for %s, got %T", field, value)
}

func expectBool(value any, field string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return engineopts.ParseBool(v, field)
	default:
		return false, fmt.Errorf("expected bool for %s, got %T", field, value)
	}
}

func expectInt(value any, field string) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer for %s, got %v", field, value)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s: %q", field, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer for %s, got %T", field, value)
	}
}

// expectDuration は "250ms" のような文字列か、ミリ秒の整数を受け付ける。
func expectDuration(value any, field string) (time.Duration, error) {
	if s, ok := value.(string); ok {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q", field, s)
		}
		return d, nil
	}
	ms, err := expectInt(value, field)
	if err != nil {
		return 0, fmt.Errorf("expected duration for %s, got %T", field, value)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func expectStringList(value any, field string) ([]string, error) {
	switch v := value.(type) {
	case string:
		return engineopts.SplitMulti([]string{v}), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, err := expectString(item, field)
			if err != nil {
				return nil, err
			}
			out = append(out, str)
		}
		return normalizeList(out), nil
	case []string:
		return normalizeList(v), nil
	default:
		return nil, fmt.Errorf("expected string or list for %s, got %T", field, value)
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func toStringKeyMap(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, value := range typed {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key: %v", k)
			}
			out[key] = value
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected map, got %T", v)
	}
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}
