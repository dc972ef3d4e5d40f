package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/phyten/tagscan/internal/engine"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func stringsPtr(values ...string) *[]string {
	copied := append([]string(nil), values...)
	return &copied
}

func TestMergeScanPrecedence(t *testing.T) {
	base := ScanSettings{Marker: "@TODO", Policy: "first", Jobs: 2, Paths: []string{"base"}, ExcludeTypical: true}

	fileCfg := ScanConfig{Marker: strPtr("@FIXME"), Policy: strPtr("each"), ExcludeTypical: boolPtr(false), Paths: stringsPtr("file")}
	envCfg := ScanConfig{Marker: strPtr(" @HACK "), Paths: stringsPtr("env"), NoPrefilter: boolPtr(true)}
	flagCfg := ScanConfig{Paths: stringsPtr("flag"), Jobs: intPtr(8)}

	merged := MergeScan(base, fileCfg, envCfg, flagCfg)

	if merged.Marker != "@HACK" {
		t.Fatalf("expected Marker @HACK, got %q", merged.Marker)
	}
	if merged.Policy != "each" {
		t.Fatalf("expected Policy each, got %q", merged.Policy)
	}
	if !reflect.DeepEqual(merged.Paths, []string{"flag"}) {
		t.Fatalf("unexpected paths: %v", merged.Paths)
	}
	if merged.ExcludeTypical {
		t.Fatal("expected ExcludeTypical to be false")
	}
	if merged.Jobs != 8 {
		t.Fatalf("expected Jobs 8, got %d", merged.Jobs)
	}
	if !merged.NoPrefilter {
		t.Fatal("expected NoPrefilter true from env layer")
	}
}

func TestMergeScanEmptyListClears(t *testing.T) {
	base := ScanSettings{Excludes: []string{"vendor/**"}}
	merged := MergeScan(base, ScanConfig{Excludes: stringsPtr()})
	if len(merged.Excludes) != 0 {
		t.Fatalf("expected excludes cleared, got %v", merged.Excludes)
	}
	merged = MergeScan(base, ScanConfig{})
	if !reflect.DeepEqual(merged.Excludes, []string{"vendor/**"}) {
		t.Fatalf("unset layer should keep base, got %v", merged.Excludes)
	}
}

func TestMergeUIPrecedence(t *testing.T) {
	base := DefaultUISettings()

	fileCfg := UIConfig{Output: strPtr("json"), Truncate: intPtr(80)}
	envCfg := UIConfig{Color: strPtr("never")}
	flagCfg := UIConfig{Output: strPtr("tsv"), Sort: strPtr(" -issue ")}

	merged := MergeUI(base, fileCfg, envCfg, flagCfg)
	if merged.Output != "tsv" {
		t.Fatalf("expected Output tsv, got %q", merged.Output)
	}
	if merged.Color != "never" {
		t.Fatalf("expected Color never, got %q", merged.Color)
	}
	if merged.Truncate != 80 {
		t.Fatalf("expected Truncate 80, got %d", merged.Truncate)
	}
	if merged.Sort != "-issue" {
		t.Fatalf("expected Sort -issue, got %q", merged.Sort)
	}

	blank := MergeUI(UISettings{}, UIConfig{Output: strPtr("  ")})
	if blank.Output != "table" || blank.Color != "auto" {
		t.Fatalf("expected defaults for blank values, got %+v", blank)
	}
}

func TestMergeWatch(t *testing.T) {
	d := time.Second
	merged := MergeWatch(DefaultWatchSettings(), WatchConfig{}, WatchConfig{Debounce: &d})
	if merged.Debounce != time.Second {
		t.Fatalf("expected 1s, got %s", merged.Debounce)
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"TAGSCAN_MARKER":          "@FIXME",
		"TAGSCAN_POLICY":          "each",
		"TAGSCAN_PATH":            "src,cmd",
		"TAGSCAN_PATH_REGEX":      ".*\\.go$",
		"TAGSCAN_EXCLUDE":         "vendor,dist",
		"TAGSCAN_EXCLUDE_TYPICAL": "yes",
		"TAGSCAN_LANG":            "go,py",
		"TAGSCAN_MAX_FILE_BYTES":  "8192",
		"TAGSCAN_JOBS":            "128",
		"TAGSCAN_REPO":            "/tmp/repo",
		"TAGSCAN_NO_PREFILTER":    "1",
		"TAGSCAN_WITH_LINKS":      "on",
		"TAGSCAN_MODE":            "pending",
		"TAGSCAN_OUTPUT":          "ndjson",
		"TAGSCAN_COLOR":           "always",
		"TAGSCAN_FIELDS":          "file,line,title",
		"TAGSCAN_TRUNCATE":        "60",
		"TAGSCAN_SORT":            "lang,-line",
		"TAGSCAN_WATCH_DEBOUNCE":  "750ms",
	}
	cfg, err := FromEnv(func(key string) string { return env[key] })
	if err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}
	if cfg.Scan.Marker == nil || *cfg.Scan.Marker != "@FIXME" {
		t.Fatalf("expected Marker @FIXME, got %+v", cfg.Scan.Marker)
	}
	if cfg.Scan.Policy == nil || *cfg.Scan.Policy != "each" {
		t.Fatalf("expected Policy each, got %+v", cfg.Scan.Policy)
	}
	if cfg.Scan.Paths == nil || !reflect.DeepEqual(*cfg.Scan.Paths, []string{"src", "cmd"}) {
		t.Fatalf("unexpected paths: %v", cfg.Scan.Paths)
	}
	if cfg.Scan.PathRegex == nil || !reflect.DeepEqual(*cfg.Scan.PathRegex, []string{".*\\.go$"}) {
		t.Fatalf("unexpected path_regex: %v", cfg.Scan.PathRegex)
	}
	if cfg.Scan.Excludes == nil || !reflect.DeepEqual(*cfg.Scan.Excludes, []string{"vendor", "dist"}) {
		t.Fatalf("unexpected excludes: %v", cfg.Scan.Excludes)
	}
	if cfg.Scan.DetectLangs == nil || !reflect.DeepEqual(*cfg.Scan.DetectLangs, []string{"go", "py"}) {
		t.Fatalf("unexpected lang: %v", cfg.Scan.DetectLangs)
	}
	if cfg.Scan.ExcludeTypical == nil || !*cfg.Scan.ExcludeTypical {
		t.Fatal("expected ExcludeTypical true")
	}
	if cfg.Scan.MaxFileBytes == nil || *cfg.Scan.MaxFileBytes != 8192 {
		t.Fatalf("unexpected max_file_bytes: %+v", cfg.Scan.MaxFileBytes)
	}
	if cfg.Scan.Jobs == nil || *cfg.Scan.Jobs != 128 {
		t.Fatalf("expected Jobs 128, got %+v", cfg.Scan.Jobs)
	}
	if cfg.Scan.Repo == nil || *cfg.Scan.Repo != "/tmp/repo" {
		t.Fatalf("unexpected repo: %+v", cfg.Scan.Repo)
	}
	if cfg.Scan.NoPrefilter == nil || !*cfg.Scan.NoPrefilter {
		t.Fatal("expected NoPrefilter true")
	}
	if cfg.Scan.WithLinks == nil || !*cfg.Scan.WithLinks {
		t.Fatal("expected WithLinks true")
	}
	if cfg.Scan.Mode == nil || *cfg.Scan.Mode != "pending" {
		t.Fatalf("unexpected mode: %+v", cfg.Scan.Mode)
	}
	if cfg.UI.Output == nil || *cfg.UI.Output != "ndjson" {
		t.Fatalf("unexpected output: %+v", cfg.UI.Output)
	}
	if cfg.UI.Color == nil || *cfg.UI.Color != "always" {
		t.Fatalf("unexpected color: %+v", cfg.UI.Color)
	}
	if cfg.UI.Fields == nil || *cfg.UI.Fields != "file,line,title" {
		t.Fatalf("unexpected fields: %+v", cfg.UI.Fields)
	}
	if cfg.UI.Truncate == nil || *cfg.UI.Truncate != 60 {
		t.Fatalf("unexpected truncate: %+v", cfg.UI.Truncate)
	}
	if cfg.UI.Sort == nil || *cfg.UI.Sort != "lang,-line" {
		t.Fatalf("unexpected sort: %+v", cfg.UI.Sort)
	}
	if cfg.Watch.Debounce == nil || *cfg.Watch.Debounce != 750*time.Millisecond {
		t.Fatalf("unexpected debounce: %+v", cfg.Watch.Debounce)
	}
}

func TestFromEnvCollectsErrors(t *testing.T) {
	env := map[string]string{
		"TAGSCAN_JOBS":           "many",
		"TAGSCAN_NO_PREFILTER":   "perhaps",
		"TAGSCAN_WATCH_DEBOUNCE": "soon",
		"TAGSCAN_MARKER":         "@NOTE",
	}
	cfg, err := FromEnv(func(key string) string { return env[key] })
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"TAGSCAN_JOBS", "TAGSCAN_NO_PREFILTER"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error should mention %s: %v", key, err)
		}
	}
	if cfg.Scan.Marker == nil || *cfg.Scan.Marker != "@NOTE" {
		t.Fatal("valid values should survive alongside errors")
	}
}

func TestLoadConfigFormats(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		".yaml":  "marker: \"@FIXME\"\npolicy: each\npath:\n  - src\nexclude_typical: true\nmax_file_bytes: 2048\nno_prefilter: true\nui:\n  output: json\n  truncate: 40\nwatch:\n  debounce: 150ms\n",
		".toml":  "[scan]\nmarker = \"@HACK\"\nlang = [\"go\", \"tf\"]\njobs = 3\nwith_links = true\nmode = \"processed\"\n[ui]\ncolor = \"never\"\nsort = \"-issue\"\n[watch]\ndebounce = 500\n",
		".json":  "{\n  \"scan\": {\"marker\": \"@NOTE\", \"exclude\": [\"vendor/**\"]},\n  \"format\": \"csv\"\n}\n",
		".jsonc": "{\n  // team default\n  \"marker\": \"@XXX\",\n  \"paths\": \"a, b\",\n  \"ui\": {\"fields\": \"file,title\",},\n}\n",
	}

	for ext, content := range cases {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "config"+ext)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Scan.Marker == nil {
				t.Fatal("expected marker to be set")
			}
			switch ext {
			case ".yaml":
				if *cfg.Scan.Marker != "@FIXME" {
					t.Fatalf("yaml marker mismatch: %q", *cfg.Scan.Marker)
				}
				if cfg.Scan.Policy == nil || *cfg.Scan.Policy != "each" {
					t.Fatalf("yaml policy mismatch: %q", ptrString(cfg.Scan.Policy))
				}
				if cfg.Scan.ExcludeTypical == nil || !*cfg.Scan.ExcludeTypical {
					t.Fatal("yaml exclude_typical should be true")
				}
				if cfg.Scan.MaxFileBytes == nil || *cfg.Scan.MaxFileBytes != 2048 {
					t.Fatalf("yaml max_file_bytes mismatch: %d", ptrInt(cfg.Scan.MaxFileBytes))
				}
				if cfg.Scan.NoPrefilter == nil || !*cfg.Scan.NoPrefilter {
					t.Fatal("yaml no_prefilter should be true")
				}
				if cfg.UI.Output == nil || *cfg.UI.Output != "json" {
					t.Fatalf("yaml output mismatch: %q", ptrString(cfg.UI.Output))
				}
				if cfg.UI.Truncate == nil || *cfg.UI.Truncate != 40 {
					t.Fatalf("yaml truncate mismatch: %d", ptrInt(cfg.UI.Truncate))
				}
				if cfg.Watch.Debounce == nil || *cfg.Watch.Debounce != 150*time.Millisecond {
					t.Fatalf("yaml debounce mismatch: %v", cfg.Watch.Debounce)
				}
			case ".toml":
				if *cfg.Scan.Marker != "@HACK" {
					t.Fatalf("toml marker mismatch: %q", *cfg.Scan.Marker)
				}
				if cfg.Scan.DetectLangs == nil || !reflect.DeepEqual(*cfg.Scan.DetectLangs, []string{"go", "tf"}) {
					t.Fatalf("toml lang mismatch: %v", cfg.Scan.DetectLangs)
				}
				if cfg.Scan.Jobs == nil || *cfg.Scan.Jobs != 3 {
					t.Fatalf("toml jobs mismatch: %d", ptrInt(cfg.Scan.Jobs))
				}
				if cfg.Scan.WithLinks == nil || !*cfg.Scan.WithLinks {
					t.Fatal("toml with_links should be true")
				}
				if cfg.Scan.Mode == nil || *cfg.Scan.Mode != "processed" {
					t.Fatalf("toml mode mismatch: %q", ptrString(cfg.Scan.Mode))
				}
				if cfg.UI.Sort == nil || *cfg.UI.Sort != "-issue" {
					t.Fatalf("toml sort mismatch: %q", ptrString(cfg.UI.Sort))
				}
				if cfg.UI.Color == nil || *cfg.UI.Color != "never" {
					t.Fatalf("toml color mismatch: %q", ptrString(cfg.UI.Color))
				}
				if cfg.Watch.Debounce == nil || *cfg.Watch.Debounce != 500*time.Millisecond {
					t.Fatalf("toml debounce mismatch: %v", cfg.Watch.Debounce)
				}
			case ".json":
				if cfg.Scan.Excludes == nil || !reflect.DeepEqual(*cfg.Scan.Excludes, []string{"vendor/**"}) {
					t.Fatalf("json exclude mismatch: %v", cfg.Scan.Excludes)
				}
				if cfg.UI.Output == nil || *cfg.UI.Output != "csv" {
					t.Fatalf("json format mismatch: %q", ptrString(cfg.UI.Output))
				}
			case ".jsonc":
				if *cfg.Scan.Marker != "@XXX" {
					t.Fatalf("jsonc marker mismatch: %q", *cfg.Scan.Marker)
				}
				if cfg.Scan.Paths == nil || !reflect.DeepEqual(*cfg.Scan.Paths, []string{"a", "b"}) {
					t.Fatalf("jsonc paths mismatch: %v", cfg.Scan.Paths)
				}
				if cfg.UI.Fields == nil || *cfg.UI.Fields != "file,title" {
					t.Fatalf("jsonc fields mismatch: %q", ptrString(cfg.UI.Fields))
				}
			}
		})
	}
}

func TestLoadUnknownKey(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"top.yaml":     "unknown: value\n",
		"section.yaml": "ui:\n  sort: age\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error for unknown key", name)
		}
	}
}

func TestLoadTypeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("jobs: [1, 2]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "jobs") {
		t.Fatalf("expected jobs type error, got %v", err)
	}
}

func TestFindOrder(t *testing.T) {
	repoRoot := filepath.Join(t.TempDir(), "repo")
	if mkErr := os.MkdirAll(filepath.Join(repoRoot, "sub", "dir"), 0o755); mkErr != nil {
		t.Fatalf("mkdir: %v", mkErr)
	}
	repoConfig := filepath.Join(repoRoot, ".tagscan.yaml")
	if writeErr := os.WriteFile(repoConfig, []byte("marker: \"@TODO\"\n"), 0o644); writeErr != nil {
		t.Fatalf("write repo config: %v", writeErr)
	}
	path, where, err := Find(filepath.Join(repoRoot, "sub", "dir"), "", "", "")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if path != repoConfig || where != "cwd-up" {
		t.Fatalf("unexpected result: path=%s where=%s", path, where)
	}

	explicitDir := t.TempDir()
	explicit := filepath.Join(explicitDir, "custom.toml")
	if writeErr := os.WriteFile(explicit, []byte("marker='@FIXME'\n"), 0o644); writeErr != nil {
		t.Fatalf("write explicit: %v", writeErr)
	}
	path, where, err = Find(repoRoot, explicit, "", "")
	if err != nil {
		t.Fatalf("Find explicit failed: %v", err)
	}
	if path != explicit || where != "explicit" {
		t.Fatalf("expected explicit config, got path=%s where=%s", path, where)
	}
	if _, _, err := Find(repoRoot, explicitDir, "", ""); err == nil {
		t.Fatal("expected error for directory passed as config")
	}

	xdgHome := t.TempDir()
	if mkErr := os.MkdirAll(filepath.Join(xdgHome, "tagscan"), 0o755); mkErr != nil {
		t.Fatalf("mkdir xdg: %v", mkErr)
	}
	xdgPath := filepath.Join(xdgHome, "tagscan", "config.json")
	if writeErr := os.WriteFile(xdgPath, []byte("{}"), 0o644); writeErr != nil {
		t.Fatalf("write xdg: %v", writeErr)
	}
	path, where, err = Find(t.TempDir(), "", xdgHome, t.TempDir())
	if err != nil {
		t.Fatalf("Find xdg failed: %v", err)
	}
	if path != xdgPath || where != "xdg" {
		t.Fatalf("expected xdg config, got path=%s where=%s", path, where)
	}

	homeDir := t.TempDir()
	homePath := filepath.Join(homeDir, ".tagscan.toml")
	if writeErr := os.WriteFile(homePath, []byte("marker='@TODO'\n"), 0o644); writeErr != nil {
		t.Fatalf("write home: %v", writeErr)
	}
	path, where, err = Find(t.TempDir(), "", t.TempDir(), homeDir)
	if err != nil {
		t.Fatalf("Find home failed: %v", err)
	}
	if path != homePath || where != "home" {
		t.Fatalf("expected home config, got path=%s where=%s", path, where)
	}
}

func TestNormalizeUI(t *testing.T) {
	values := UISettings{Output: "MD", Color: " Never ", Fields: " file,title "}
	normalized, err := NormalizeUI(values)
	if err != nil {
		t.Fatalf("NormalizeUI error: %v", err)
	}
	if normalized.Output != "markdown" {
		t.Fatalf("expected output markdown, got %q", normalized.Output)
	}
	if normalized.Color != "never" {
		t.Fatalf("expected color never, got %q", normalized.Color)
	}
	if normalized.Fields != "file,title" {
		t.Fatalf("expected fields trimmed, got %q", normalized.Fields)
	}

	if _, err := NormalizeUI(UISettings{Output: "xml"}); err == nil {
		t.Fatal("expected error for unknown output")
	}
	if _, err := NormalizeUI(UISettings{Output: "table", Color: "rainbow"}); err == nil {
		t.Fatal("expected error for invalid color")
	}
	if _, err := NormalizeUI(UISettings{Output: "table", Truncate: -1}); err == nil {
		t.Fatal("expected error for negative truncate")
	}
}

func TestNormalizeWatch(t *testing.T) {
	if _, err := NormalizeWatch(DefaultWatchSettings()); err != nil {
		t.Fatalf("default debounce rejected: %v", err)
	}
	if _, err := NormalizeWatch(WatchSettings{Debounce: time.Millisecond}); err == nil {
		t.Fatal("expected error for tiny debounce")
	}
}

func TestScanSettingsApplyToOptions(t *testing.T) {
	settings := ScanSettings{Marker: "@TODO", Policy: "each", Paths: []string{"src"}, Jobs: 4, Repo: " /r ", WithLinks: true}
	opts := engine.Options{RepoDir: "."}
	settings.ApplyToOptions(&opts)
	if opts.Marker != "@TODO" || opts.Policy != "each" || opts.Jobs != 4 || !opts.WithLinks {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.RepoDir != "/r" {
		t.Fatalf("expected trimmed repo, got %q", opts.RepoDir)
	}
	settings.Paths[0] = "mutated"
	if opts.Paths[0] != "src" {
		t.Fatal("paths should be copied")
	}

	back := ScanSettingsFromOptions(opts)
	if back.Repo != "/r" || !reflect.DeepEqual(back.Paths, []string{"src"}) {
		t.Fatalf("unexpected settings: %+v", back)
	}
	(ScanSettings{}).ApplyToOptions(&opts)
	if opts.RepoDir != "/r" {
		t.Fatal("blank repo should not overwrite RepoDir")
	}
}

func ptrString(v *string) string {
	if v == nil {
		return "<nil>"
	}
	return *v
}

func ptrInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
