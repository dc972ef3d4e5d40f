package main

import (
	"fmt"
	"strings"

	"github.com/phyten/tagscan/internal/config"
	"github.com/phyten/tagscan/internal/engine"
	engineopts "github.com/phyten/tagscan/internal/engine/opts"
)

type settings struct {
	opts        engine.Options
	ui          config.UISettings
	watch       config.WatchSettings
	configPath  string
	failOnError bool
}

// resolveSettings layers defaults, the config file, TAGSCAN_* variables and
// flags, in that order.
func resolveSettings(cli *cliConfig, getenv func(string) string) (settings, error) {
	var out settings

	envCfg, err := config.FromEnv(getenv)
	if err != nil {
		return out, fmt.Errorf("environment: %w", err)
	}

	repoHint := "."
	for _, v := range []*string{envCfg.Scan.Repo, cli.scan.Repo} {
		if v != nil && strings.TrimSpace(*v) != "" {
			repoHint = *v
		}
	}
	explicit := cli.configPath
	if explicit == "" {
		explicit = getenv("TAGSCAN_CONFIG")
	}
	path, _, err := config.Find(repoHint, explicit, getenv("XDG_CONFIG_HOME"), getenv("HOME"))
	if err != nil {
		return out, fmt.Errorf("config: %w", err)
	}
	fileCfg, err := config.Load(path)
	if err != nil {
		return out, fmt.Errorf("config: %w", err)
	}
	out.configPath = path

	out.opts = engineopts.Defaults(".")
	scan := config.MergeScan(config.ScanSettingsFromOptions(out.opts), fileCfg.Scan, envCfg.Scan, cli.scan)
	scan.ApplyToOptions(&out.opts)
	if err := engineopts.NormalizeAndValidate(&out.opts); err != nil {
		return out, err
	}

	ui := config.MergeUI(config.DefaultUISettings(), fileCfg.UI, envCfg.UI, cli.ui)
	if out.ui, err = config.NormalizeUI(ui); err != nil {
		return out, err
	}
	watch := config.MergeWatch(config.DefaultWatchSettings(), fileCfg.Watch, envCfg.Watch, cli.watch)
	if out.watch, err = config.NormalizeWatch(watch); err != nil {
		return out, err
	}
	return out, nil
}
