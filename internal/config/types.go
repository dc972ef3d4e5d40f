package config

import (
	"strings"
	"time"

	"github.com/phyten/tagscan/internal/engine"
)

// ScanConfig は走査に関わる設定。nil のフィールドは「未指定」を表す。
type ScanConfig struct {
	Marker         *string   `yaml:"marker" toml:"marker" json:"marker"`
	Policy         *string   `yaml:"policy" toml:"policy" json:"policy"`
	Paths          *[]string `yaml:"path" toml:"path" json:"path"`
	Excludes       *[]string `yaml:"exclude" toml:"exclude" json:"exclude"`
	PathRegex      *[]string `yaml:"path_regex" toml:"path_regex" json:"path_regex"`
	ExcludeTypical *bool     `yaml:"exclude_typical" toml:"exclude_typical" json:"exclude_typical"`
	DetectLangs    *[]string `yaml:"lang" toml:"lang" json:"lang"`
	MaxFileBytes   *int      `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
	Jobs           *int      `yaml:"jobs" toml:"jobs" json:"jobs"`
	Repo           *string   `yaml:"repo" toml:"repo" json:"repo"`
	NoPrefilter    *bool     `yaml:"no_prefilter" toml:"no_prefilter" json:"no_prefilter"`
	WithLinks      *bool     `yaml:"with_links" toml:"with_links" json:"with_links"`
	Mode           *string   `yaml:"mode" toml:"mode" json:"mode"`
}

// UIConfig は出力に関わる設定。
type UIConfig struct {
	Output   *string `yaml:"output" toml:"output" json:"output"`
	Color    *string `yaml:"color" toml:"color" json:"color"`
	Fields   *string `yaml:"fields" toml:"fields" json:"fields"`
	Truncate *int    `yaml:"truncate" toml:"truncate" json:"truncate"`
	Sort     *string `yaml:"sort" toml:"sort" json:"sort"`
}

// WatchConfig は watch サブコマンドの設定。
type WatchConfig struct {
	Debounce *time.Duration `yaml:"debounce" toml:"debounce" json:"debounce"`
}

type Config struct {
	Scan  ScanConfig  `yaml:"scan" toml:"scan" json:"scan"`
	UI    UIConfig    `yaml:"ui" toml:"ui" json:"ui"`
	Watch WatchConfig `yaml:"watch" toml:"watch" json:"watch"`
}

type ScanSettings struct {
	Marker         string
	Policy         string
	Paths          []string
	Excludes       []string
	PathRegex      []string
	ExcludeTypical bool
	DetectLangs    []string
	MaxFileBytes   int
	Jobs           int
	Repo           string
	NoPrefilter    bool
	WithLinks      bool
	Mode           string
}

type UISettings struct {
	Output   string
	Color    string
	Fields   string
	Truncate int
	Sort     string
}

type WatchSettings struct {
	Debounce time.Duration
}

func ScanSettingsFromOptions(opts engine.Options) ScanSettings {
	return ScanSettings{
		Marker:         opts.Marker,
		Policy:         opts.Policy,
		Paths:          cloneStrings(opts.Paths),
		Excludes:       cloneStrings(opts.Excludes),
		PathRegex:      cloneStrings(opts.PathRegex),
		ExcludeTypical: opts.ExcludeTypical,
		DetectLangs:    cloneStrings(opts.DetectLangs),
		MaxFileBytes:   opts.MaxFileBytes,
		Jobs:           opts.Jobs,
		Repo:           opts.RepoDir,
		NoPrefilter:    opts.NoPrefilter,
		WithLinks:      opts.WithLinks,
		Mode:           opts.Mode,
	}
}

func (s ScanSettings) ApplyToOptions(opts *engine.Options) {
	if opts == nil {
		return
	}
	opts.Marker = s.Marker
	opts.Policy = s.Policy
	opts.Paths = cloneStrings(s.Paths)
	opts.Excludes = cloneStrings(s.Excludes)
	opts.PathRegex = cloneStrings(s.PathRegex)
	opts.ExcludeTypical = s.ExcludeTypical
	opts.DetectLangs = cloneStrings(s.DetectLangs)
	opts.MaxFileBytes = s.MaxFileBytes
	opts.Jobs = s.Jobs
	if trimmed := strings.TrimSpace(s.Repo); trimmed != "" {
		opts.RepoDir = trimmed
	}
	opts.NoPrefilter = s.NoPrefilter
	opts.WithLinks = s.WithLinks
	opts.Mode = s.Mode
}

func DefaultUISettings() UISettings {
	return UISettings{Output: "table", Color: "auto"}
}

func DefaultWatchSettings() WatchSettings {
	return WatchSettings{Debounce: 300 * time.Millisecond}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
