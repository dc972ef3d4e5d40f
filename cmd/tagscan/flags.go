package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phyten/tagscan/internal/config"
	engineopts "github.com/phyten/tagscan/internal/engine/opts"
)

// multiFlag collects repeatable flags; each value may itself be comma
// separated.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// cliConfig is the flag layer plus the switches that only exist on the
// command line.
type cliConfig struct {
	scan  config.ScanConfig
	ui    config.UIConfig
	watch config.WatchConfig

	configPath    string
	forceProgress bool
	noProgress    bool
	failOnError   bool
	showHelp      bool
}

func newFlagSet(name string, stderr io.Writer, withWatch bool) (*flag.FlagSet, *cliConfig, func() error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := &cliConfig{}

	var (
		marker, policy, mode, repo, output, color, fields, sortBy string
		paths, excludes, regexes, langs                           multiFlag
		excludeTypical, noPrefilter, withLinks                    bool
		maxBytes, jobs, truncate                                  int
		debounce                                                  time.Duration
	)
	fs.StringVar(&marker, "marker", engineopts.DefaultMarker, "annotation marker to look for")
	fs.StringVar(&policy, "policy", "first", "first|each: annotations per comment")
	fs.StringVar(&mode, "mode", "all", "all|pending|processed: filter by (#N) issue number")
	fs.Var(&langs, "lang", "only scan these languages (repeatable, comma separated)")
	fs.Var(&paths, "path", "limit to paths or globs (repeatable)")
	fs.Var(&excludes, "exclude", "exclude paths or globs (repeatable)")
	fs.Var(&regexes, "path-regex", "keep files matching any regexp (repeatable)")
	fs.BoolVar(&excludeTypical, "exclude-typical", false, "exclude vendor, node_modules, dist, build, target and *.min.*")
	fs.IntVar(&maxBytes, "max-file-bytes", 0, "skip files larger than N bytes (0=unlimited)")
	fs.BoolVar(&noPrefilter, "no-prefilter", false, "list every tracked file instead of git grep candidates")
	fs.IntVar(&jobs, "jobs", 0, "parallel workers (default: CPU count)")
	fs.StringVar(&repo, "repo", ".", "repository root")
	fs.BoolVar(&withLinks, "with-links", false, "add blob and issue URLs from the origin remote")
	fs.StringVar(&output, "output", "table", strings.Join(engineopts.Outputs, "|"))
	fs.StringVar(&fields, "fields", "", "comma separated columns (default: location,lang,issue,title)")
	fs.StringVar(&sortBy, "sort", "", "sort keys, e.g. lang,-issue (file line column lang issue title marker kind location)")
	fs.IntVar(&truncate, "truncate", 0, "truncate title/description/payload to N cells in tables (0=unlimited)")
	fs.StringVar(&color, "color", "auto", "auto|always|never")
	fs.BoolVar(&cfg.forceProgress, "progress", false, "show progress even when stderr is not a terminal")
	fs.BoolVar(&cfg.noProgress, "no-progress", false, "never show progress")
	fs.StringVar(&cfg.configPath, "config", "", "config file (default: search .tagscan.* upward, then XDG, then HOME)")
	fs.BoolVar(&cfg.failOnError, "fail-on-error", false, "exit 1 when any file could not be scanned")
	if withWatch {
		fs.DurationVar(&debounce, "debounce", config.DefaultWatchSettings().Debounce, "quiet period before a rescan")
	}

	// finish copies only the flags given explicitly into the flag layer, so
	// config files and the environment are not overridden by flag defaults.
	finish := func() error {
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "marker":
				cfg.scan.Marker = &marker
			case "policy":
				cfg.scan.Policy = &policy
			case "mode":
				cfg.scan.Mode = &mode
			case "lang":
				cfg.scan.DetectLangs = splitList(langs)
			case "path":
				cfg.scan.Paths = splitList(paths)
			case "exclude":
				cfg.scan.Excludes = splitList(excludes)
			case "path-regex":
				// Regexps may contain commas, so they are not split.
				list := append([]string(nil), regexes...)
				cfg.scan.PathRegex = &list
			case "exclude-typical":
				cfg.scan.ExcludeTypical = &excludeTypical
			case "max-file-bytes":
				cfg.scan.MaxFileBytes = &maxBytes
			case "no-prefilter":
				cfg.scan.NoPrefilter = &noPrefilter
			case "with-links":
				cfg.scan.WithLinks = &withLinks
			case "jobs":
				cfg.scan.Jobs = &jobs
			case "repo":
				cfg.scan.Repo = &repo
			case "output":
				cfg.ui.Output = &output
			case "fields":
				cfg.ui.Fields = &fields
			case "sort":
				cfg.ui.Sort = &sortBy
			case "truncate":
				cfg.ui.Truncate = &truncate
			case "color":
				cfg.ui.Color = &color
			case "debounce":
				cfg.watch.Debounce = &debounce
			}
		})
		if cfg.forceProgress && cfg.noProgress {
			return fmt.Errorf("--progress and --no-progress are mutually exclusive")
		}
		return nil
	}
	return fs, cfg, finish
}

func splitList(values multiFlag) *[]string {
	list := engineopts.SplitMulti(values)
	if list == nil {
		list = []string{}
	}
	return &list
}

// parseArgs parses the flags of the scan or watch command. For -h the usage
// has already been printed and showHelp is set.
func parseArgs(name string, args []string, stderr io.Writer, withWatch bool) (*cliConfig, error) {
	fs, cfg, finish := newFlagSet(name, stderr, withWatch)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			cfg.showHelp = true
			return cfg, nil
		}
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}
