package config

import "strings"

// MergeScan applies layers in order (file, env, flags); later layers win.
func MergeScan(base ScanSettings, layers ...ScanConfig) ScanSettings {
	out := base
	for _, layer := range layers {
		out.Marker = ResolveAndTrim(out.Marker, layer.Marker)
		out.Policy = ResolveAndTrim(out.Policy, layer.Policy)
		out.Paths = ResolveStrings(out.Paths, layer.Paths)
		out.Excludes = ResolveStrings(out.Excludes, layer.Excludes)
		out.PathRegex = ResolveStrings(out.PathRegex, layer.PathRegex)
		out.ExcludeTypical = Resolve(out.ExcludeTypical, layer.ExcludeTypical)
		out.DetectLangs = ResolveStrings(out.DetectLangs, layer.DetectLangs)
		out.MaxFileBytes = Resolve(out.MaxFileBytes, layer.MaxFileBytes)
		out.Jobs = Resolve(out.Jobs, layer.Jobs)
		out.Repo = ResolveAndTrim(out.Repo, layer.Repo)
		out.NoPrefilter = Resolve(out.NoPrefilter, layer.NoPrefilter)
		out.WithLinks = Resolve(out.WithLinks, layer.WithLinks)
		out.Mode = ResolveAndTrim(out.Mode, layer.Mode)
	}
	return out
}

func MergeUI(base UISettings, layers ...UIConfig) UISettings {
	out := base
	for _, layer := range layers {
		out.Output = ResolveAndTrim(out.Output, layer.Output)
		out.Color = ResolveAndTrim(out.Color, layer.Color)
		out.Fields = ResolveAndTrim(out.Fields, layer.Fields)
		out.Truncate = Resolve(out.Truncate, layer.Truncate)
		out.Sort = ResolveAndTrim(out.Sort, layer.Sort)
	}
	if strings.TrimSpace(out.Output) == "" {
		out.Output = "table"
	}
	if strings.TrimSpace(out.Color) == "" {
		out.Color = "auto"
	}
	return out
}

func MergeWatch(base WatchSettings, layers ...WatchConfig) WatchSettings {
	out := base
	for _, layer := range layers {
		out.Debounce = Resolve(out.Debounce, layer.Debounce)
	}
	return out
}
