package scan

import (
	"errors"
	"fmt"
)

// Kind classifies a region of source text.
type Kind uint8

// Constants defining the valid Kind values.
const (
	Code Kind = iota
	LineComment
	BlockComment
	StringLiteral
	CharLiteral
)

var kindStr = [...]string{
	Code:          "code",
	LineComment:   "line comment",
	BlockComment:  "block comment",
	StringLiteral: "string",
	CharLiteral:   "char",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindStr[k]
}

// IsComment reports whether k is a line or block comment.
func (k Kind) IsComment() bool { return k == LineComment || k == BlockComment }

// A Span is a classified, half-open byte range [Start, End) of the input.
type Span struct {
	Kind   Kind
	Start  int
	End    int
	Line   int // 1-based line of Start
	Column int // 1-based byte column of Start

	// Open and Close hold the delimiters that opened and closed the span.
	// Both are empty for Code; Close is empty for line comments.
	Open  string
	Close string
}

// Len returns the length of the span in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Text returns the bytes of src covered by s.
func (s Span) Text(src []byte) []byte { return src[s.Start:s.End] }

var (
	// ErrUnterminatedLiteral reports input ending inside a string or char literal.
	ErrUnterminatedLiteral = errors.New("unterminated literal")
	// ErrUnterminatedComment reports input ending inside a block comment.
	ErrUnterminatedComment = errors.New("unterminated comment")
)

// Error describes a construct left open at end of input. The position is that
// of the opening delimiter.
type Error struct {
	Kind   Kind
	Delim  string
	Offset int
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %v opened by %q", e.Line, e.Column, e.Unwrap(), e.Delim)
}

// Unwrap returns ErrUnterminatedComment or ErrUnterminatedLiteral.
func (e *Error) Unwrap() error {
	if e.Kind == BlockComment {
		return ErrUnterminatedComment
	}
	return ErrUnterminatedLiteral
}
