package scan

import (
	"go4.org/mem"

	"github.com/phyten/tagscan/internal/grammar"
)

// A Scanner classifies an input buffer into spans, one per call to Next.
// No work is done beyond the last span returned, so a caller may stop at any
// point by dropping the Scanner. A Scanner cannot be rewound; scanning again
// means constructing a new one.
type Scanner struct {
	src []byte
	tab *grammar.Table

	pos  int // offset of the next unread byte
	line int // 1-based line at pos
	col  int // 1-based column at pos

	span Span
	err  error
	done bool
}

// New constructs a Scanner over src using the delimiters of tab. The buffer is
// borrowed for the life of the Scanner and is never modified.
func New(src []byte, tab *grammar.Table) *Scanner {
	return &Scanner{src: src, tab: tab, line: 1, col: 1}
}

// Next advances to the next span. It returns false at the end of the input or
// when the input ends inside an open literal or block comment, in which case
// Err reports the failure.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}
	if s.pos >= len(s.src) {
		s.done = true
		return false
	}
	s.span = Span{Start: s.pos, Line: s.line, Column: s.col}

	if p, ok := s.tab.MatchBlock(s.src, s.pos); ok {
		return s.blockComment(p)
	}
	if tok, ok := s.tab.MatchLine(s.src, s.pos); ok {
		return s.lineComment(tok)
	}
	if q, ok := s.tab.MatchString(s.src, s.pos); ok {
		return s.literal(StringLiteral, q)
	}
	if q, ok := s.tab.MatchChar(s.src, s.pos); ok {
		return s.literal(CharLiteral, q)
	}
	return s.code()
}

// Span returns the span found by the last successful call to Next.
func (s *Scanner) Span() Span { return s.span }

// Err returns the error that stopped the scan, or nil at a clean end of input.
func (s *Scanner) Err() error { return s.err }

// All scans src to completion. On failure it returns no spans.
func All(src []byte, tab *grammar.Table) ([]Span, error) {
	var out []Span
	s := New(src, tab)
	for s.Next() {
		out = append(out, s.Span())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Scanner) code() bool {
	s.span.Kind = Code
	s.advance(1)
	for s.pos < len(s.src) && !s.opensConstruct(s.pos) {
		s.advance(1)
	}
	return s.finish()
}

func (s *Scanner) opensConstruct(at int) bool {
	if _, ok := s.tab.MatchBlock(s.src, at); ok {
		return true
	}
	if _, ok := s.tab.MatchLine(s.src, at); ok {
		return true
	}
	if _, ok := s.tab.MatchString(s.src, at); ok {
		return true
	}
	_, ok := s.tab.MatchChar(s.src, at)
	return ok
}

func (s *Scanner) lineComment(tok string) bool {
	s.span.Kind = LineComment
	s.span.Open = tok
	s.advance(len(tok))
	if nl := mem.IndexByte(mem.B(s.src[s.pos:]), '\n'); nl >= 0 {
		s.advance(nl)
	} else {
		s.advance(len(s.src) - s.pos)
	}
	return s.finish()
}

func (s *Scanner) blockComment(p grammar.Pair) bool {
	s.span.Kind = BlockComment
	s.span.Open = p.Start
	s.advance(len(p.Start))
	depth := 1
	for s.pos < len(s.src) {
		rest := mem.B(s.src[s.pos:])
		if p.MatchBlockEnd(s.src, s.pos) {
			s.advance(len(p.End))
			depth--
			if depth == 0 {
				s.span.Close = p.End
				return s.finish()
			}
			continue
		}
		if p.Nested && mem.HasPrefix(rest, mem.S(p.Start)) {
			s.advance(len(p.Start))
			depth++
			continue
		}
		s.advance(1)
	}
	return s.fail(BlockComment, p.Start)
}

func (s *Scanner) literal(kind Kind, q grammar.Quote) bool {
	s.span.Kind = kind
	s.span.Open = q.Open
	closer := q.Closer()
	s.advance(len(q.Open))
	for s.pos < len(s.src) {
		if q.Escape != 0 && s.src[s.pos] == q.Escape {
			// The escaped byte is inert, including a second escape character.
			s.advance(min(2, len(s.src)-s.pos))
			continue
		}
		if mem.HasPrefix(mem.B(s.src[s.pos:]), mem.S(closer)) {
			s.advance(len(closer))
			s.span.Close = closer
			return s.finish()
		}
		s.advance(1)
	}
	return s.fail(kind, q.Open)
}

func (s *Scanner) finish() bool {
	s.span.End = s.pos
	return true
}

func (s *Scanner) fail(kind Kind, delim string) bool {
	s.err = &Error{
		Kind:   kind,
		Delim:  delim,
		Offset: s.span.Start,
		Line:   s.span.Line,
		Column: s.span.Column,
	}
	s.span = Span{}
	s.done = true
	return false
}

// advance consumes n bytes, tracking line and column.
func (s *Scanner) advance(n int) {
	for end := s.pos + n; s.pos < end; s.pos++ {
		if s.src[s.pos] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
}
