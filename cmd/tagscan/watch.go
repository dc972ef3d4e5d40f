package main

import (
	"context"
	"fmt"

	"github.com/phyten/tagscan/internal/engine"
	"github.com/phyten/tagscan/internal/watch"
)

func (a *app) watchCmd(ctx context.Context, args []string) error {
	_, s, err := a.prepare("tagscan watch", args, true)
	if err != nil || s == nil {
		return err
	}
	r, err := a.newRenderer(s)
	if err != nil {
		return usageError{err}
	}
	// Progress lines would interleave with repeated output.
	s.opts.Progress = false

	scanOnce := func(ctx context.Context) error {
		res, err := engine.Run(ctx, s.opts)
		if err != nil {
			return err
		}
		if err := r.render(res); err != nil {
			return err
		}
		a.reportErrors(res)
		return nil
	}
	if err := scanOnce(ctx); err != nil {
		return err
	}

	where := "no config file"
	if s.configPath != "" {
		where = "config " + s.configPath
	}
	a.log.Printf("watching %s (%s, debounce %s)", s.opts.RepoDir, where, s.watch.Debounce)

	opts := s.opts
	return watch.Run(ctx, watch.Options{
		Root:     opts.RepoDir,
		Debounce: s.watch.Debounce,
		SkipDir:  func(rel string) bool { return engine.SkipDir(opts, rel) },
	}, func(ctx context.Context, changed []string) error {
		a.log.Printf("%s changed, rescanning", describeChanges(changed))
		if err := scanOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// A failed rescan is reported and the next change retries.
			a.log.Print(err)
		}
		return nil
	})
}

func describeChanges(changed []string) string {
	switch len(changed) {
	case 0:
		return "nothing"
	case 1:
		return changed[0]
	default:
		return fmt.Sprintf("%s and %d more", changed[0], len(changed)-1)
	}
}
