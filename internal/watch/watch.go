// Package watch reports batches of changed files under a directory tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Options configures Run.
type Options struct {
	Root     string
	Debounce time.Duration
	// SkipDir reports whether a directory (slash separated, relative to Root)
	// should not be watched. VCS metadata directories are always skipped.
	SkipDir func(rel string) bool
}

// ChangeFunc receives the sorted, de-duplicated relative paths that changed
// during one quiet period. A non-nil error stops Run.
type ChangeFunc func(ctx context.Context, changed []string) error

// Run watches Root recursively until ctx is done. Directories created while
// running are added to the watch, and files already inside them count as
// changed.
func Run(ctx context.Context, opts Options, onChange ChangeFunc) error {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return err
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()

	tw := &treeWatcher{root: root, w: w, skip: opts.SkipDir, pending: make(map[string]struct{})}
	if err := tw.addTree(root, false); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if tw.handle(ev) {
				timer.Reset(debounce)
			}
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(werr, fsnotify.ErrEventOverflow) {
				// Events were lost; report the root so the caller rescans.
				tw.pending["."] = struct{}{}
				timer.Reset(debounce)
				continue
			}
			return fmt.Errorf("watch: %w", werr)
		case <-timer.C:
			batch := tw.flush()
			if len(batch) == 0 {
				continue
			}
			if err := onChange(ctx, batch); err != nil {
				return err
			}
		}
	}
}

type treeWatcher struct {
	root    string
	w       *fsnotify.Watcher
	skip    func(rel string) bool
	pending map[string]struct{}
}

var vcsDirs = map[string]bool{".git": true, ".hg": true, ".svn": true}

func (tw *treeWatcher) rel(abs string) string {
	rel, err := filepath.Rel(tw.root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func (tw *treeWatcher) skipped(abs string) bool {
	if abs == tw.root {
		return false
	}
	if vcsDirs[filepath.Base(abs)] {
		return true
	}
	return tw.skip != nil && tw.skip(tw.rel(abs))
}

// addTree watches dir and its subdirectories. With markFiles set, regular
// files found on the way are queued as changed.
func (tw *treeWatcher) addTree(dir string, markFiles bool) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return fmt.Errorf("watch %s: %w", p, err)
			}
			return nil
		}
		if d.IsDir() {
			if tw.skipped(p) {
				return filepath.SkipDir
			}
			if err := tw.w.Add(p); err != nil {
				return fmt.Errorf("watch %s: %w", p, err)
			}
			return nil
		}
		if markFiles && d.Type().IsRegular() {
			tw.pending[tw.rel(p)] = struct{}{}
		}
		return nil
	})
}

// handle records ev and reports whether the debounce timer should restart.
func (tw *treeWatcher) handle(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	for dir := filepath.Dir(ev.Name); dir != tw.root && len(dir) > len(tw.root); dir = filepath.Dir(dir) {
		if vcsDirs[filepath.Base(dir)] {
			return false
		}
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if tw.skipped(ev.Name) {
				return false
			}
			// A directory removed again right away is reported by its own
			// remove event.
			_ = tw.addTree(ev.Name, true)
			return true
		}
	}
	tw.pending[tw.rel(ev.Name)] = struct{}{}
	return true
}

func (tw *treeWatcher) flush() []string {
	if len(tw.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(tw.pending))
	for p := range tw.pending {
		out = append(out, p)
	}
	sort.Strings(out)
	tw.pending = make(map[string]struct{})
	return out
}
