package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/phyten/tagscan/internal/execx"
)

var errNotGitRepo = errors.New("not a git work tree")

// listFiles returns repo-relative, slash-separated candidate paths. Inside a
// git work tree it asks git; elsewhere it walks the directory.
func listFiles(ctx context.Context, opts Options, runner execx.Runner) ([]string, error) {
	files, err := gitFiles(ctx, opts, runner)
	if errors.Is(err, errNotGitRepo) {
		return walkFiles(ctx, opts)
	}
	return files, err
}

func gitFiles(ctx context.Context, opts Options, runner execx.Runner) ([]string, error) {
	var args []string
	if opts.NoPrefilter {
		args = []string{"-c", "core.quotePath=false", "ls-files", "-z", "--"}
	} else {
		args = []string{"-c", "core.quotePath=false", "grep", "-lIzF", "-e", opts.Marker, "--"}
	}
	args = append(args, buildGrepPathspecs(opts.Paths, opts.Excludes, opts.ExcludeTypical)...)
	stdout, stderr, err := runner.Run(ctx, opts.RepoDir, "git", args...)
	if err != nil {
		if execx.IsNotFound(err) {
			return nil, fmt.Errorf("%w: git not found", errNotGitRepo)
		}
		msg := strings.TrimSpace(string(stderr))
		if code, ok := execx.ExitCode(err); ok {
			// git grep exits 1 when nothing matches
			if !opts.NoPrefilter && code == 1 && msg == "" {
				return nil, nil
			}
			if strings.Contains(msg, "not a git repository") {
				return nil, errNotGitRepo
			}
		}
		if msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", args[2], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[2], err)
	}
	return splitNUL(stdout), nil
}

func splitNUL(out []byte) []string {
	if len(out) == 0 {
		return nil
	}
	parts := bytes.Split(out, []byte{0})
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		paths = append(paths, filepath.ToSlash(string(p)))
	}
	return paths
}

func walkFiles(ctx context.Context, opts Options) ([]string, error) {
	root := opts.RepoDir
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && SkipDir(opts, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if opts.ExcludeTypical && strings.Contains(path.Base(rel), ".min.") {
			return nil
		}
		if !walkIncluded(rel, opts.Paths) || walkExcluded(rel, opts.Excludes) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, nil
}

// SkipDir reports whether the directory rel (slash separated, relative to
// RepoDir) is pruned when walking outside git. Watch mode uses the same rule.
func SkipDir(opts Options, rel string) bool {
	switch path.Base(rel) {
	case ".git", ".hg", ".svn":
		return true
	}
	if opts.ExcludeTypical && typicalExcludeDirs[path.Base(rel)] {
		return true
	}
	return walkExcluded(rel, opts.Excludes)
}
