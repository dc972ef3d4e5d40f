package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
	notify  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan struct{}, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.batches = append(r.batches, changed)
	r.mu.Unlock()
	select {
	case r.notify <- struct{}{}:
	default:
	}
	return nil
}

func (r *recorder) seen() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, b := range r.batches {
		for _, p := range b {
			out[p] = true
		}
	}
	return out
}

// waitFor blocks until every path in want has been reported.
func (r *recorder) waitFor(t *testing.T, want ...string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		seen := r.seen()
		missing := false
		for _, p := range want {
			if !seen[p] {
				missing = true
			}
		}
		if !missing {
			return
		}
		select {
		case <-r.notify:
		case <-deadline:
			t.Fatalf("timeout: want %v, saw %v", want, seen)
		}
	}
}

func startWatch(t *testing.T, opts Options, r *recorder) {
	t.Helper()
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	_ = fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, opts, r.onChange) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run returned %v", err)
		}
	})
	// Give Run time to register the tree.
	time.Sleep(100 * time.Millisecond)
}

func TestRunBatchesChanges(t *testing.T) {
	dir := t.TempDir()
	r := newRecorder()
	startWatch(t, Options{Root: dir, Debounce: 50 * time.Millisecond}, r)

	for _, name := range []string{"a.go", "b.py"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("// @TODO x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	r.waitFor(t, "a.go", "b.py")
}

func TestRunWatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	r := newRecorder()
	startWatch(t, Options{Root: dir, Debounce: 50 * time.Millisecond}, r)

	sub := filepath.Join(dir, "pkg", "inner")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "x.go"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	r.waitFor(t, "pkg/inner/x.go")

	if err := os.WriteFile(filepath.Join(sub, "y.go"), []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	r.waitFor(t, "pkg/inner/y.go")
}

func TestRunSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{".git", "node_modules", "src"} {
		if err := os.Mkdir(filepath.Join(dir, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	r := newRecorder()
	skip := func(rel string) bool { return strings.HasPrefix(rel, "node_modules") }
	startWatch(t, Options{Root: dir, Debounce: 50 * time.Millisecond, SkipDir: skip}, r)

	for _, p := range []string{".git/index", "node_modules/m.js", "src/main.go"} {
		if err := os.WriteFile(filepath.Join(dir, p), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	r.waitFor(t, "src/main.go")
	time.Sleep(150 * time.Millisecond)
	seen := r.seen()
	if seen[".git/index"] || seen["node_modules/m.js"] {
		t.Fatalf("skipped directories reported: %v", seen)
	}
}

func TestFlushSortsAndResets(t *testing.T) {
	tw := &treeWatcher{pending: map[string]struct{}{"b": {}, "a": {}}}
	got := tw.flush()
	if strings.Join(got, ",") != "a,b" {
		t.Fatalf("flush = %v", got)
	}
	if tw.flush() != nil {
		t.Fatal("second flush should be empty")
	}
}
