package opts

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/phyten/tagscan/internal/annotate"
	"github.com/phyten/tagscan/internal/detect"
	"github.com/phyten/tagscan/internal/engine"
)

const (
	maxJobs = 64

	// DefaultMarker is used when neither flags, env nor config name a marker.
	DefaultMarker = "@TODO"
)

var (
	trueLiterals  = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "on": {}}
	falseLiterals = map[string]struct{}{"0": {}, "false": {}, "no": {}, "off": {}}
)

// Outputs lists the accepted --output values.
var Outputs = []string{"table", "tsv", "json", "ndjson", "csv", "markdown"}

// Defaults returns the baseline options shared by the scan and watch commands.
func Defaults(repoDir string) engine.Options {
	jobs := runtime.NumCPU()
	if jobs < 1 {
		jobs = 1
	}
	if jobs > maxJobs {
		jobs = maxJobs
	}
	return engine.Options{
		Marker:       DefaultMarker,
		Policy:       annotate.FirstOnly.String(),
		Jobs:         jobs,
		RepoDir:      repoDir,
		MaxFileBytes: 0,
		NoPrefilter:  false,
		Mode:         engine.ModeAll,
	}
}

// NormalizeAndValidate ensures the options are canonical and within the allowed ranges.
func NormalizeAndValidate(o *engine.Options) error {
	o.Marker = strings.TrimSpace(o.Marker)
	if o.Marker == "" {
		return fmt.Errorf("marker must not be empty")
	}
	if strings.ContainsAny(o.Marker, " \t\r\n") {
		return fmt.Errorf("marker must not contain whitespace: %q", o.Marker)
	}

	policy, err := annotate.ParsePolicy(o.Policy)
	if err != nil {
		return fmt.Errorf("invalid --policy: %s", o.Policy)
	}
	o.Policy = policy.String()

	if o.Mode, err = engine.ParseMode(o.Mode); err != nil {
		return err
	}

	if o.Jobs < 1 || o.Jobs > maxJobs {
		return fmt.Errorf("jobs must be between 1 and %d", maxJobs)
	}
	if strings.TrimSpace(o.RepoDir) == "" {
		o.RepoDir = "."
	}
	if o.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must be >= 0")
	}

	o.Paths = trimSlice(o.Paths)
	o.Excludes = trimSlice(o.Excludes)
	o.PathRegex = trimSlice(o.PathRegex)
	o.DetectLangs = detect.CanonicalDetectLangs(trimSlice(o.DetectLangs))

	compiled, err := engine.CompilePathRegex(o.PathRegex)
	if err != nil {
		return fmt.Errorf("invalid --path-regex: %w", err)
	}
	o.PathRegexCompiled = compiled
	return nil
}

// ParseBool converts a string literal into a boolean, accepting multiple synonyms.
func ParseBool(raw, key string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := trueLiterals[v]; ok {
		return true, nil
	}
	if _, ok := falseLiterals[v]; ok {
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange parses a string into an int and ensures it falls within [min, max].
// If max < min, the upper bound is ignored.
func ParseIntInRange(raw, key string, min, max int) (int, error) {
	n, err := parseInt(raw, key)
	if err != nil {
		return 0, err
	}
	if n < min {
		if max >= min {
			return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
		}
		return 0, fmt.Errorf("%s must be >= %d", key, min)
	}
	if max >= min && n > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return n, nil
}

// NormalizeOutput validates and lower-cases the --output value.
func NormalizeOutput(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "md" {
		v = "markdown"
	}
	for _, o := range Outputs {
		if v == o {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid --output: %s (want one of %s)", value, strings.Join(Outputs, "|"))
}

// SplitMulti turns repeated flag values (and comma-separated values) into a flat slice.
func SplitMulti(vals []string) []string {
	var out []string
	for _, raw := range vals {
		for _, piece := range strings.Split(raw, ",") {
			part := strings.TrimSpace(piece)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

func parseInt(raw, key string) (int, error) {
	v := strings.TrimSpace(raw)
	n, err := strconv.Atoi(v)
	if v == "" || err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	return n, nil
}

func trimSlice(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := values[:0]
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
