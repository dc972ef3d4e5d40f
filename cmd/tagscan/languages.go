package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/phyten/tagscan/internal/grammar"
	"github.com/phyten/tagscan/internal/output"
)

func (a *app) languagesCmd(args []string) error {
	fs := flag.NewFlagSet("tagscan languages", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "show comment delimiters")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return usageError{err}
	}
	return writeLanguages(a, grammar.Default, *verbose)
}

func writeLanguages(a *app, reg *grammar.Registry, verbose bool) error {
	ids := reg.Languages()
	if !verbose {
		_, err := fmt.Fprintln(a.stdout, strings.Join(ids, "\n"))
		return err
	}
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		tab, err := reg.Lookup(id)
		if err != nil {
			return err
		}
		spec := tab.Spec()
		blocks := make([]string, 0, len(spec.BlockComments))
		for _, p := range spec.BlockComments {
			b := p.Start + " " + p.End
			if p.Nested {
				b += " (nested)"
			}
			blocks = append(blocks, b)
		}
		rows = append(rows, []string{id, strings.Join(spec.LineComments, " "), strings.Join(blocks, ", ")})
	}
	return output.WriteColumns(a.stdout, []string{"LANGUAGE", "LINE", "BLOCK"}, rows)
}
