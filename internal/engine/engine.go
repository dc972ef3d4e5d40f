package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phyten/tagscan/internal/annotate"
	"github.com/phyten/tagscan/internal/detect"
	"github.com/phyten/tagscan/internal/execx"
	"github.com/phyten/tagscan/internal/grammar"
	"github.com/phyten/tagscan/internal/progress"
	"github.com/phyten/tagscan/internal/scan"
)

const maxWorkers = 64

// Run は指定されたオプションに従ってリポジトリを走査し、アノテーションの一覧を返します。
//
// ファイル単位の読み込み・字句解析の失敗は Result.Errors に集約され、走査自体は継続します。
// 返り値のエラーはオプション不正やファイル一覧の取得失敗、ctx のキャンセルに限られます。
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if strings.TrimSpace(opts.Marker) == "" {
		return nil, errors.New("marker must not be empty")
	}
	policy, err := annotate.ParsePolicy(opts.Policy)
	if err != nil {
		return nil, err
	}
	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	opts.Jobs = min(opts.Jobs, maxWorkers)
	if strings.TrimSpace(opts.RepoDir) == "" {
		opts.RepoDir = "."
	}
	if opts.PathRegexCompiled == nil && len(opts.PathRegex) > 0 {
		if opts.PathRegexCompiled, err = CompilePathRegex(opts.PathRegex); err != nil {
			return nil, fmt.Errorf("invalid --path-regex: %w", err)
		}
	}
	reg := opts.Registry
	if reg == nil {
		reg = grammar.Default
	}
	runner := opts.Runner
	if runner == nil {
		runner = execx.DefaultRunner()
	}
	allow, err := allowedLanguages(reg, opts.DetectLangs)
	if err != nil {
		return nil, err
	}

	files, err := listFiles(ctx, opts, runner)
	if err != nil {
		return nil, err
	}
	files = filterPathsByRegex(files, opts.PathRegexCompiled)

	sc := fileScanner{
		repo:     opts.RepoDir,
		maxBytes: opts.MaxFileBytes,
		reg:      reg,
		allow:    allow,
		extract:  annotate.Extractor{Marker: opts.Marker, Policy: policy},
	}
	items, errs, skipped, err := scanFiles(ctx, files, opts, sc)
	if err != nil {
		return nil, err
	}
	items = filterByMode(items, mode)

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].File != items[j].File {
			return items[i].File < items[j].File
		}
		if items[i].Line != items[j].Line {
			return items[i].Line < items[j].Line
		}
		return items[i].Column < items[j].Column
	})
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].File == errs[j].File {
			if errs[i].Line == errs[j].Line {
				return errs[i].Stage < errs[j].Stage
			}
			return errs[i].Line < errs[j].Line
		}
		return errs[i].File < errs[j].File
	})

	if opts.WithLinks && len(items) > 0 {
		if err := attachLinks(ctx, runner, opts.RepoDir, items); err != nil {
			return nil, err
		}
	}

	return &Result{
		Items:      items,
		Total:      len(items),
		Files:      len(files),
		Skipped:    skipped,
		ElapsedMS:  time.Since(start).Milliseconds(),
		Errors:     errs,
		ErrorCount: len(errs),
	}, nil
}

// allowedLanguages resolves --lang values to grammar ids so that aliases
// (tf, terraform, hcl) select the same table.
func allowedLanguages(reg *grammar.Registry, langs []string) (map[string]bool, error) {
	if len(langs) == 0 {
		return nil, nil
	}
	allow := make(map[string]bool, len(langs))
	for _, raw := range detect.CanonicalDetectLangs(langs) {
		tab, err := reg.Lookup(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --lang: %w", err)
		}
		allow[tab.ID()] = true
	}
	return allow, nil
}

type fileResult struct {
	items   []Item
	errs    []ItemError
	skipped bool
}

func scanFiles(ctx context.Context, files []string, opts Options, sc fileScanner) ([]Item, []ItemError, int, error) {
	if len(files) == 0 {
		return nil, nil, 0, nil
	}
	var tracker *progress.Tracker
	obs := opts.ProgressObserver
	if opts.Progress && obs != nil {
		tracker = progress.NewTracker(len(files), progress.Config{})
	}

	jobs := make(chan string)
	results := make(chan fileResult)
	var wg sync.WaitGroup
	wg.Add(opts.Jobs)
	for i := 0; i < opts.Jobs; i++ {
		go func() {
			defer wg.Done()
			for rel := range jobs {
				res := sc.scan(rel)
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, rel := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- rel:
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		items   []Item
		errs    []ItemError
		skipped int
	)
	for res := range results {
		items = append(items, res.items...)
		errs = append(errs, res.errs...)
		if res.skipped {
			skipped++
		}
		if tracker != nil {
			if snap, notify := tracker.Advance(1); notify {
				obs.Publish(snap)
			}
		}
	}
	if tracker != nil {
		obs.Done(tracker.Complete())
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}
	return items, errs, skipped, nil
}

// fileScanner holds the read-only state shared by all workers.
type fileScanner struct {
	repo     string
	maxBytes int
	reg      *grammar.Registry
	allow    map[string]bool
	extract  annotate.Extractor
}

func (f fileScanner) scan(rel string) fileResult {
	data, err := os.ReadFile(filepath.Join(f.repo, filepath.FromSlash(rel)))
	if err != nil {
		return fileResult{errs: []ItemError{newItemError(rel, 0, "read", err)}}
	}
	if detect.LooksBinary(data) || (f.maxBytes > 0 && len(data) > f.maxBytes) {
		return fileResult{skipped: true}
	}
	info := detect.FromPathAndContent(rel, data)
	if info.Name == "" {
		return fileResult{skipped: true}
	}
	tab, err := f.reg.Lookup(info.Name)
	if err != nil {
		return fileResult{skipped: true}
	}
	if f.allow != nil && !f.allow[tab.ID()] {
		return fileResult{skipped: true}
	}
	if !bytes.Contains(data, []byte(f.extract.Marker)) {
		return fileResult{}
	}

	anns, err := f.extract.Collect(scan.New(data, tab), data)
	if err != nil {
		line := 0
		var serr *scan.Error
		if errors.As(err, &serr) {
			line = serr.Line
		}
		return fileResult{errs: []ItemError{newItemError(rel, line, "scan", err)}}
	}
	items := make([]Item, 0, len(anns))
	for _, a := range anns {
		items = append(items, Item{
			File:        rel,
			Lang:        tab.ID(),
			Marker:      a.Marker,
			Kind:        a.Kind.String(),
			Line:        a.Line,
			Column:      a.Column,
			Title:       a.Title,
			Description: a.Description,
			Payload:     a.Payload,
			IssueNumber: a.IssueNumber,
		})
	}
	return fileResult{items: items}
}

func newItemError(file string, line int, stage string, err error) ItemError {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown error"
	}
	return ItemError{File: file, Line: line, Stage: stage, Message: msg}
}
