package engine

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var typicalExcludePatterns = []string{
	":(glob,exclude)vendor/**",
	":(glob,exclude)node_modules/**",
	":(glob,exclude)dist/**",
	":(glob,exclude)build/**",
	":(glob,exclude)target/**",
	":(glob,exclude)*.min.*",
}

// typicalExcludeDirs mirrors typicalExcludePatterns for the directory walk.
var typicalExcludeDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"target":       true,
}

// buildGrepPathspecs builds the list to append after "--" for `git grep` and
// `git ls-files`.
func buildGrepPathspecs(includes, excludes []string, typical bool) []string {
	incs := cleanPatterns(includes)
	out := make([]string, 0, len(incs)+len(excludes)+len(typicalExcludePatterns)+1)
	if len(incs) == 0 {
		out = append(out, ".")
	} else {
		out = append(out, incs...)
	}
	if typical {
		out = append(out, typicalExcludePatterns...)
	}
	for _, ex := range cleanPatterns(excludes) {
		if strings.HasPrefix(ex, ":!") || strings.HasPrefix(ex, ":(exclude)") || strings.HasPrefix(ex, ":(glob,exclude)") {
			out = append(out, ex)
			continue
		}
		out = append(out, ":(glob,exclude)"+ex)
	}
	return out
}

func cleanPatterns(values []string) []string {
	out := make([]string, 0, len(values))
	for _, raw := range values {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		out = append(out, filepath.ToSlash(trimmed))
	}
	return out
}

// CompilePathRegex compiles the --path-regex values, skipping blanks.
func CompilePathRegex(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, raw := range patterns {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		rx, err := regexp.Compile(trimmed)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, rx)
	}
	return compiled, nil
}

func filterPathsByRegex(paths []string, rx []*regexp.Regexp) []string {
	if len(rx) == 0 {
		return paths
	}
	out := paths[:0]
	for _, p := range paths {
		for _, r := range rx {
			if r.MatchString(p) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// walkIncluded applies --path to a slash-separated relative path outside git.
// An include matches when it names the path, one of its parent directories,
// or is a glob matching it.
func walkIncluded(rel string, includes []string) bool {
	incs := cleanPatterns(includes)
	if len(incs) == 0 {
		return true
	}
	for _, inc := range incs {
		inc = strings.TrimSuffix(strings.TrimPrefix(inc, "./"), "/")
		if inc == "." || inc == "" || rel == inc || strings.HasPrefix(rel, inc+"/") {
			return true
		}
		if ok, _ := path.Match(inc, rel); ok {
			return true
		}
	}
	return false
}

// walkExcluded applies --exclude globs outside git. Pathspec magic prefixes
// are stripped and a trailing "/**" excludes the whole directory.
func walkExcluded(rel string, excludes []string) bool {
	for _, ex := range cleanPatterns(excludes) {
		for _, magic := range []string{":(glob,exclude)", ":(exclude)", ":!"} {
			ex = strings.TrimPrefix(ex, magic)
		}
		if dir, ok := strings.CutSuffix(ex, "/**"); ok {
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(ex, rel); ok {
			return true
		}
		if ok, _ := path.Match(ex, path.Base(rel)); ok {
			return true
		}
	}
	return false
}
