// Package annotate pulls marked annotations out of the comment spans produced
// by package scan.
//
// A comment carries an annotation when, after its decoration is stripped, it
// contains the marker as a standalone token. The text following the marker is
// the payload:
//
//	// @TAG tidy the retry loop
//	/*
//	 * @TAG(#42) split this file
//	 * once the parser lands
//	 */
//
// The second comment yields IssueNumber 42, Title "split this file" and
// Description "once the parser lands".
package annotate

import (
	"fmt"
	"strings"

	"github.com/phyten/tagscan/internal/grammar"
	"github.com/phyten/tagscan/internal/scan"
)

// Policy selects how many annotations a single comment may yield.
type Policy int

const (
	// FirstOnly honors the first marker occurrence in a comment.
	FirstOnly Policy = iota
	// EachOccurrence yields one annotation per occurrence; each payload runs
	// up to the next occurrence.
	EachOccurrence
)

func (p Policy) String() string {
	if p == EachOccurrence {
		return "each"
	}
	return "first"
}

// ParsePolicy accepts "first" (or "") and "each".
func ParsePolicy(raw string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "first":
		return FirstOnly, nil
	case "each", "all":
		return EachOccurrence, nil
	default:
		return FirstOnly, fmt.Errorf("invalid policy: %s", raw)
	}
}

// Annotation is one marked comment.
type Annotation struct {
	Marker      string
	Payload     string
	Title       string
	Description string
	IssueNumber int

	// Location of the marker's first byte.
	Offset int
	Line   int
	Column int

	Kind         scan.Kind // LineComment or BlockComment
	CommentStart int
	CommentEnd   int
}

// Extractor finds Marker in comment spans.
type Extractor struct {
	Marker string
	Policy Policy
}

// Extract returns the annotations found in the comment spans of src. Spans of
// other kinds are ignored.
func (x Extractor) Extract(spans []scan.Span, src []byte) []Annotation {
	if x.Marker == "" {
		return nil
	}
	var out []Annotation
	for _, sp := range spans {
		out = x.appendFrom(out, sp, src)
	}
	return out
}

// Collect drains s and extracts annotations as spans arrive. If the scan
// fails, Collect returns the scan error and no annotations.
func (x Extractor) Collect(s *scan.Scanner, src []byte) ([]Annotation, error) {
	var out []Annotation
	for s.Next() {
		if x.Marker != "" {
			out = x.appendFrom(out, s.Span(), src)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Extract is shorthand for Extractor{Marker: marker}.Extract.
func Extract(spans []scan.Span, src []byte, marker string) []Annotation {
	return Extractor{Marker: marker}.Extract(spans, src)
}

// Scan scans src with tab and extracts the first annotation of every marked
// comment.
func Scan(src []byte, tab *grammar.Table, marker string) ([]Annotation, error) {
	return Extractor{Marker: marker}.Collect(scan.New(src, tab), src)
}

func (x Extractor) appendFrom(out []Annotation, sp scan.Span, src []byte) []Annotation {
	if !sp.Kind.IsComment() {
		return out
	}
	lines := strip(sp, src)
	hits := findMarker(lines, x.Marker)
	if len(hits) == 0 {
		return out
	}
	if x.Policy == FirstOnly {
		hits = hits[:1]
	}
	for i, h := range hits {
		stop := position{line: len(lines)}
		if i+1 < len(hits) {
			stop = hits[i+1].at
		}
		payload := collectPayload(lines, h.after, stop)
		title, desc := splitPayload(payload)
		off := lines[h.at.line].off + h.at.col
		line, col := locate(sp, src, off)
		out = append(out, Annotation{
			Marker:       x.Marker,
			Payload:      payload,
			Title:        title,
			Description:  desc,
			IssueNumber:  h.issue,
			Offset:       off,
			Line:         line,
			Column:       col,
			Kind:         sp.Kind,
			CommentStart: sp.Start,
			CommentEnd:   sp.End,
		})
	}
	return out
}

// locate converts an offset inside sp into a 1-based line and column.
func locate(sp scan.Span, src []byte, off int) (line, col int) {
	line, col = sp.Line, sp.Column
	for i := sp.Start; i < off; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func splitPayload(payload string) (title, desc string) {
	first, rest, _ := strings.Cut(payload, "\n")
	var parts []string
	for _, l := range strings.Split(rest, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.TrimSpace(first), strings.Join(parts, " ")
}
