package engine

import (
	"path/filepath"
	"reflect"
	"regexp"
	"testing"
)

func TestBuildGrepPathspecs_DefaultsToDot(t *testing.T) {
	t.Parallel()

	got := buildGrepPathspecs(nil, nil, false)
	if !reflect.DeepEqual(got, []string{"."}) {
		t.Fatalf("unexpected result: %#v", got)
	}
}

func TestBuildGrepPathspecsIncludesAndExcludes(t *testing.T) {
	t.Parallel()

	includes := []string{"src", " pkg ", "", "windows\\path"}
	excludes := []string{"vendor/**", ":(exclude)third_party/**", ":!build/**", "  "}

	got := buildGrepPathspecs(includes, excludes, true)

	want := []string{"src", "pkg", filepath.ToSlash("windows\\path")}
	want = append(want, typicalExcludePatterns...)
	want = append(want, ":(glob,exclude)vendor/**", ":(exclude)third_party/**", ":!build/**")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pathspecs mismatch:\n got=%q\nwant=%q", got, want)
	}
}

func TestCompilePathRegexTrimsAndValidates(t *testing.T) {
	t.Parallel()

	rx, err := CompilePathRegex([]string{"  ", "^src/", "(cmd|pkg)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rx) != 2 {
		t.Fatalf("expected 2 regexps, got %d", len(rx))
	}
	if _, err := CompilePathRegex([]string{"["}); err == nil {
		t.Fatal("expected compile error for invalid regexp")
	}
}

func TestFilterPathsByRegex(t *testing.T) {
	t.Parallel()

	rx := []*regexp.Regexp{regexp.MustCompile(`^src/`), regexp.MustCompile(`\.go$`)}
	got := filterPathsByRegex([]string{"src/main.c", "pkg/util.go", "docs/readme.md"}, rx)
	want := []string{"src/main.c", "pkg/util.go"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}

	all := []string{"a", "b"}
	if got := filterPathsByRegex(all, nil); len(got) != len(all) {
		t.Fatalf("expected original slice when no regex: %v", got)
	}
}

func TestWalkIncludedAndExcluded(t *testing.T) {
	t.Parallel()

	includes := []string{"src/", "cmd/*.go"}
	cases := map[string]bool{
		"src/a/b.c":   true,
		"src":         true,
		"srcx/a.c":    false,
		"cmd/main.go": true,
		"cmd/x/y.go":  false,
	}
	for rel, want := range cases {
		if got := walkIncluded(rel, includes); got != want {
			t.Fatalf("walkIncluded(%q)=%v want %v", rel, got, want)
		}
	}
	if !walkIncluded("anything", nil) {
		t.Fatal("no includes should admit everything")
	}

	excludes := []string{"third_party/**", ":(glob,exclude)*.gen.go", ":!docs/*.md"}
	exCases := map[string]bool{
		"third_party":       true,
		"third_party/x/y.c": true,
		"pkg/api.gen.go":    true,
		"docs/readme.md":    true,
		"docs/a/readme.md":  false,
		"pkg/api.go":        false,
	}
	for rel, want := range exCases {
		if got := walkExcluded(rel, excludes); got != want {
			t.Fatalf("walkExcluded(%q)=%v want %v", rel, got, want)
		}
	}
}

func TestSkipDir(t *testing.T) {
	opts := Options{Excludes: []string{"gen/**"}}
	cases := map[string]bool{
		".git":             true,
		"sub/.hg":          true,
		"gen":              true,
		"node_modules":     false,
		"src":              false,
		"src/node_modules": false,
	}
	for rel, want := range cases {
		if got := SkipDir(opts, rel); got != want {
			t.Fatalf("SkipDir(%q)=%v want %v", rel, got, want)
		}
	}
	opts.ExcludeTypical = true
	for _, rel := range []string{"node_modules", "src/node_modules", "vendor"} {
		if !SkipDir(opts, rel) {
			t.Fatalf("SkipDir(%q) should honor typical excludes", rel)
		}
	}
}
