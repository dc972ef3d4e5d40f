package link

import (
	"strings"
	"testing"

	"github.com/phyten/tagscan/internal/gitremote"
)

func TestBlobMarkdownAddsPlain(t *testing.T) {
	info := gitremote.Info{Host: "github.com", Owner: "owner", Repo: "repo"}
	got := Blob(info, "abcdef", "docs/readme.md", 10)
	if !strings.HasSuffix(got, "?plain=1#L10") {
		t.Fatalf("expected markdown link to include plain parameter: %s", got)
	}
}

func TestBlobUsesCustomSchemeAndPort(t *testing.T) {
	info := gitremote.Info{Host: "ghes.local:8443", Owner: "team", Repo: "demo", Scheme: "http"}
	got := Blob(info, "abcdef", "src/main file.go", 42)
	want := "http://ghes.local:8443/team/demo/blob/abcdef/src/main%20file.go#L42"
	if got != want {
		t.Fatalf("blob URL mismatch: got=%s want=%s", got, want)
	}
}

func TestIssueURL(t *testing.T) {
	info := gitremote.Info{Host: "example.com", Owner: "org", Repo: "proj"}
	if got := Issue(info, 42); got != "https://example.com/org/proj/issues/42" {
		t.Fatalf("issue URL mismatch: %s", got)
	}
}

func TestLinksReturnEmptyForInvalidInput(t *testing.T) {
	info := gitremote.Info{Host: "github.com", Owner: "org", Repo: "repo"}
	if got := Blob(info, "", "file.go", 10); got != "" {
		t.Fatalf("empty ref should yield empty link: %s", got)
	}
	if got := Blob(info, "abcdef", "", 10); got != "" {
		t.Fatalf("empty file should yield empty link: %s", got)
	}
	if got := Blob(info, "abcdef", "file.go", 0); got != "" {
		t.Fatalf("non-positive line should yield empty link: %s", got)
	}
	if got := Issue(info, 0); got != "" {
		t.Fatalf("missing issue should yield empty link: %s", got)
	}
}
