package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phyten/tagscan/internal/engine"
	"github.com/phyten/tagscan/internal/output"
	"github.com/phyten/tagscan/internal/progress"
	"github.com/phyten/tagscan/internal/termcolor"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usage = `tagscan finds marked annotations in source comments.

Usage:
  tagscan [scan] [flags]    scan and print annotations
  tagscan languages [-v]    list supported languages
  tagscan watch [flags]     scan, then rescan whenever files change

Run "tagscan scan -h" for the flags.
`

func main() {
	log.SetFlags(0)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, termcolor.EnvMap(os.Environ()))
	stop()
	os.Exit(code)
}

// app carries the process surroundings so commands can be tested.
type app struct {
	stdout io.Writer
	stderr io.Writer
	env    map[string]string
	log    *log.Logger
}

func (a *app) getenv(key string) string { return a.env[key] }

func run(ctx context.Context, args []string, stdout, stderr io.Writer, env map[string]string) int {
	a := &app{stdout: stdout, stderr: stderr, env: env, log: log.New(stderr, "tagscan: ", 0)}
	cmd := "scan"
	if len(args) > 0 {
		switch args[0] {
		case "scan", "languages", "watch":
			cmd, args = args[0], args[1:]
		case "help":
			_, _ = io.WriteString(stdout, usage)
			return exitOK
		}
	}

	var err error
	switch cmd {
	case "languages":
		err = a.languagesCmd(args)
	case "watch":
		err = a.watchCmd(ctx, args)
	default:
		err = a.scanCmd(ctx, args)
	}
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errFilesFailed):
		return exitError
	case errors.As(err, new(usageError)):
		a.log.Print(err)
		return exitUsage
	default:
		a.log.Print(err)
		return exitError
	}
}

// errFilesFailed is returned by --fail-on-error after the warnings have been
// printed.
var errFilesFailed = errors.New("some files could not be scanned")

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// prepare parses flags and resolves every configuration layer. A nil
// settings with a nil error means -h was handled.
func (a *app) prepare(name string, args []string, withWatch bool) (*cliConfig, *settings, error) {
	cli, err := parseArgs(name, args, a.stderr, withWatch)
	if err != nil {
		return nil, nil, usageError{err}
	}
	if cli.showHelp {
		return cli, nil, nil
	}
	s, err := resolveSettings(cli, a.getenv)
	if err != nil {
		return nil, nil, usageError{err}
	}
	s.failOnError = cli.failOnError
	return cli, &s, nil
}

func (a *app) scanCmd(ctx context.Context, args []string) error {
	cli, s, err := a.prepare("tagscan scan", args, false)
	if err != nil || s == nil {
		return err
	}
	r, err := a.newRenderer(s)
	if err != nil {
		return usageError{err}
	}
	s.opts.Progress = progress.ShouldShow(cli.forceProgress, cli.noProgress)
	if s.opts.Progress {
		s.opts.ProgressObserver = progress.NewAutoObserver(a.stderr)
	}
	res, err := engine.Run(ctx, s.opts)
	if err != nil {
		return err
	}
	if err := r.render(res); err != nil {
		return err
	}
	a.reportErrors(res)
	if s.failOnError && res.ErrorCount > 0 {
		return errFilesFailed
	}
	return nil
}

// renderer writes one Result in the configured format.
type renderer struct {
	w      io.Writer
	format string
	fields output.FieldSelection
	sort   output.SortSpec
	table  output.TableOptions
}

func (a *app) newRenderer(s *settings) (*renderer, error) {
	sel, err := output.ResolveFields(s.ui.Fields)
	if err != nil {
		return nil, err
	}
	spec, err := output.ParseSortSpec(s.ui.Sort)
	if err != nil {
		return nil, err
	}
	mode, err := termcolor.ParseMode(s.ui.Color)
	if err != nil {
		return nil, err
	}
	out, _ := a.stdout.(*os.File)
	return &renderer{
		w:      a.stdout,
		format: s.ui.Output,
		fields: sel,
		sort:   spec,
		table: output.TableOptions{
			Truncate: s.ui.Truncate,
			Color:    termcolor.Resolve(mode, out, a.env),
			Palette:  termcolor.NewPalette(termcolor.DetectScheme(a.env), termcolor.DetectProfile(a.env)),
		},
	}, nil
}

func (r *renderer) render(res *engine.Result) error {
	output.ApplySort(res.Items, r.sort)
	return output.Write(r.w, r.format, res, r.fields, r.table)
}

// reportErrors prints per-file failures to stderr after the results.
func (a *app) reportErrors(res *engine.Result) {
	if res == nil || res.ErrorCount == 0 {
		return
	}
	fmt.Fprintf(a.stderr, "tagscan: %d file(s) could not be scanned:\n", res.ErrorCount)
	for _, e := range res.Errors {
		loc := e.File
		switch {
		case loc == "":
			loc = "(unknown location)"
		case e.Line > 0:
			loc = fmt.Sprintf("%s:%d", e.File, e.Line)
		}
		stage := e.Stage
		if stage == "" {
			stage = "scan"
		}
		fmt.Fprintf(a.stderr, "  %s [%s] %s\n", loc, stage, e.Message)
	}
}
