package grammar

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go4.org/mem"
)

var (
	// ErrAmbiguousDelimiter reports a delimiter that shadows (or is shadowed by)
	// another delimiter of the same category.
	ErrAmbiguousDelimiter = errors.New("ambiguous delimiter configuration")
	// ErrUnsupportedLanguage reports a lookup for a language without a table.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Pair is a block comment style.
type Pair struct {
	Start string
	End   string
	// Nested block comments count depth, so the span only closes when every
	// inner Start has been matched by an End.
	Nested bool
	// AtLineStart limits Start and End to lines holding nothing but
	// indentation before them.
	AtLineStart bool
}

// Quote is a string or character literal style. Close defaults to Open and an
// Escape of zero disables escaping.
type Quote struct {
	Open   string
	Close  string
	Escape byte
	// Short literals hold one character or one escape sequence. Open only
	// counts when Close follows on the same line within that bound, so Rust
	// lifetimes ('a) and Haskell primes (x') stay code.
	Short bool
}

// maxShortEscape bounds an escape sequence in a Short literal, long enough
// for \u{10FFFF}.
const maxShortEscape = 10

// Closer returns the delimiter that ends a literal opened by q.
func (q Quote) Closer() string {
	if q.Close == "" {
		return q.Open
	}
	return q.Close
}

// Spec is the declarative form of a Table. Within each category the
// declaration order is the match order, so longer delimiters sharing a prefix
// with shorter ones must be declared first.
type Spec struct {
	ID            string
	LineComments  []string
	BlockComments []Pair
	Strings       []Quote
	Chars         []Quote
}

// Table is the compiled, read-only lexical description of one language.
// A Table is safe for concurrent use.
type Table struct {
	id     string
	lines  []string
	blocks []Pair
	strs   []Quote
	chars  []Quote
}

// New validates spec and compiles it into a Table.
func New(spec Spec) (*Table, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return nil, errors.New("grammar: empty language id")
	}
	if err := checkCategory(id, "line comment", spec.LineComments); err != nil {
		return nil, err
	}
	starts := make([]string, 0, len(spec.BlockComments))
	for _, p := range spec.BlockComments {
		if p.End == "" {
			return nil, fmt.Errorf("grammar %s: block comment %q: empty end token: %w", id, p.Start, ErrAmbiguousDelimiter)
		}
		starts = append(starts, p.Start)
	}
	if err := checkCategory(id, "block comment", starts); err != nil {
		return nil, err
	}
	if err := checkCategory(id, "string", quoteOpeners(spec.Strings)); err != nil {
		return nil, err
	}
	if err := checkCategory(id, "char", quoteOpeners(spec.Chars)); err != nil {
		return nil, err
	}
	return &Table{
		id:     id,
		lines:  append([]string(nil), spec.LineComments...),
		blocks: append([]Pair(nil), spec.BlockComments...),
		strs:   append([]Quote(nil), spec.Strings...),
		chars:  append([]Quote(nil), spec.Chars...),
	}, nil
}

// MustNew is like New but panics on an invalid spec.
func MustNew(spec Spec) *Table {
	t, err := New(spec)
	if err != nil {
		panic(err)
	}
	return t
}

// checkCategory rejects empty delimiters, duplicates, and any delimiter that is
// a prefix of one declared after it: the earlier one would always win and the
// later one could never match.
func checkCategory(id, category string, delims []string) error {
	for i, d := range delims {
		if d == "" {
			return fmt.Errorf("grammar %s: empty %s delimiter: %w", id, category, ErrAmbiguousDelimiter)
		}
		for _, later := range delims[i+1:] {
			if strings.HasPrefix(later, d) {
				return fmt.Errorf("grammar %s: %s delimiter %q shadows %q: %w", id, category, d, later, ErrAmbiguousDelimiter)
			}
		}
	}
	return nil
}

func quoteOpeners(qs []Quote) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Open)
	}
	return out
}

// ID returns the language id.
func (t *Table) ID() string { return t.id }

// Spec returns a copy of the declaration the table was built from.
func (t *Table) Spec() Spec {
	return Spec{
		ID:            t.id,
		LineComments:  append([]string(nil), t.lines...),
		BlockComments: append([]Pair(nil), t.blocks...),
		Strings:       append([]Quote(nil), t.strs...),
		Chars:         append([]Quote(nil), t.chars...),
	}
}

// MatchBlock reports the block comment style starting at src[at:], if any.
func (t *Table) MatchBlock(src []byte, at int) (Pair, bool) {
	rest := mem.B(src[at:])
	for _, p := range t.blocks {
		if !mem.HasPrefix(rest, mem.S(p.Start)) {
			continue
		}
		if p.AtLineStart && !onlyIndentBefore(src, at) {
			continue
		}
		return p, true
	}
	return Pair{}, false
}

// MatchLine reports the line comment token starting at src[at:], if any.
func (t *Table) MatchLine(src []byte, at int) (string, bool) {
	rest := mem.B(src[at:])
	for _, tok := range t.lines {
		if mem.HasPrefix(rest, mem.S(tok)) {
			return tok, true
		}
	}
	return "", false
}

// MatchString reports the string literal style opening at src[at:], if any.
func (t *Table) MatchString(src []byte, at int) (Quote, bool) {
	return matchQuote(t.strs, src, at)
}

// MatchChar reports the character literal style opening at src[at:], if any.
func (t *Table) MatchChar(src []byte, at int) (Quote, bool) {
	return matchQuote(t.chars, src, at)
}

func matchQuote(qs []Quote, src []byte, at int) (Quote, bool) {
	rest := mem.B(src[at:])
	for _, q := range qs {
		if !mem.HasPrefix(rest, mem.S(q.Open)) {
			continue
		}
		if q.Short && !shortBody(src[at+len(q.Open):], q) {
			continue
		}
		return q, true
	}
	return Quote{}, false
}

// shortBody reports whether body starts with one rune or one escape sequence
// followed by the closer of q.
func shortBody(body []byte, q Quote) bool {
	closer := mem.S(q.Closer())
	if len(body) == 0 || body[0] == '\n' {
		return false
	}
	if q.Escape != 0 && body[0] == q.Escape {
		// Same stepping as the scanner: an escape makes the next byte inert.
		for i := 2; i < len(body) && i <= maxShortEscape; {
			switch {
			case body[i] == '\n':
				return false
			case body[i] == q.Escape:
				i += 2
			case mem.HasPrefix(mem.B(body[i:]), closer):
				return true
			default:
				i++
			}
		}
		return false
	}
	if mem.HasPrefix(mem.B(body), closer) {
		return false
	}
	_, size := utf8.DecodeRune(body)
	return mem.HasPrefix(mem.B(body[size:]), closer)
}

// MatchBlockEnd reports whether p's end token closes the comment at src[at:].
func (p Pair) MatchBlockEnd(src []byte, at int) bool {
	if !mem.HasPrefix(mem.B(src[at:]), mem.S(p.End)) {
		return false
	}
	return !p.AtLineStart || onlyIndentBefore(src, at)
}

func onlyIndentBefore(src []byte, at int) bool {
	for i := at - 1; i >= 0; i-- {
		switch src[i] {
		case '\n':
			return true
		case ' ', '\t':
			continue
		default:
			return false
		}
	}
	return true
}
