package config

import (
	"errors"
	"math"
	"strings"
	"time"

	engineopts "github.com/phyten/tagscan/internal/engine/opts"
)

// FromEnv reads TAGSCAN_* variables. Every malformed value is reported; the
// returned Config still carries the values that did parse.
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var cfg Config
	var errs []error

	lookup := func(key string) (string, bool) {
		raw := strings.TrimSpace(getenv(key))
		return raw, raw != ""
	}
	setString := func(target **string, key string) {
		if raw, ok := lookup(key); ok {
			*target = &raw
		}
	}
	setList := func(target **[]string, key string) {
		if raw, ok := lookup(key); ok {
			list := engineopts.SplitMulti([]string{raw})
			if list == nil {
				list = []string{}
			}
			*target = &list
		}
	}
	setBool := func(target **bool, key string) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := engineopts.ParseBool(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}
	setInt := func(target **int, key string, min, max int) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := engineopts.ParseIntInRange(raw, key, min, max)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}

	setString(&cfg.Scan.Marker, "TAGSCAN_MARKER")
	setString(&cfg.Scan.Policy, "TAGSCAN_POLICY")
	setList(&cfg.Scan.Paths, "TAGSCAN_PATH")
	setList(&cfg.Scan.Excludes, "TAGSCAN_EXCLUDE")
	setList(&cfg.Scan.PathRegex, "TAGSCAN_PATH_REGEX")
	setList(&cfg.Scan.DetectLangs, "TAGSCAN_LANG")
	setBool(&cfg.Scan.ExcludeTypical, "TAGSCAN_EXCLUDE_TYPICAL")
	setInt(&cfg.Scan.MaxFileBytes, "TAGSCAN_MAX_FILE_BYTES", 0, math.MinInt)
	setInt(&cfg.Scan.Jobs, "TAGSCAN_JOBS", 0, math.MinInt)
	setString(&cfg.Scan.Repo, "TAGSCAN_REPO")
	setBool(&cfg.Scan.NoPrefilter, "TAGSCAN_NO_PREFILTER")
	setBool(&cfg.Scan.WithLinks, "TAGSCAN_WITH_LINKS")
	setString(&cfg.Scan.Mode, "TAGSCAN_MODE")

	setString(&cfg.UI.Output, "TAGSCAN_OUTPUT")
	setString(&cfg.UI.Color, "TAGSCAN_COLOR")
	setString(&cfg.UI.Fields, "TAGSCAN_FIELDS")
	setInt(&cfg.UI.Truncate, "TAGSCAN_TRUNCATE", 0, math.MinInt)
	setString(&cfg.UI.Sort, "TAGSCAN_SORT")

	if raw, ok := lookup("TAGSCAN_WATCH_DEBOUNCE"); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, err)
		} else {
			cfg.Watch.Debounce = &d
		}
	}

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, nil
}
