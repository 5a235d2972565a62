package rsproj

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
)

// ErrorKind classifies a parse failure.
type ErrorKind string

const (
	// KindLexical covers malformed values: unterminated strings, bad numbers,
	// unknown words, line breaks inside a value and missing separators.
	KindLexical ErrorKind = "lexical"

	// KindNesting covers missing opening or closing braces.
	KindNesting ErrorKind = "nesting"

	// KindSemantic covers well-formed input that cannot be resolved:
	// duplicate job names, unknown `use` targets and empty values.
	KindSemantic ErrorKind = "semantic"
)

// Error is a positioned parse failure. Every failure aborts the whole parse;
// no partial result accompanies it.
type Error struct {
	Kind    ErrorKind
	Message string

	// Offset is the character index of the failure within the parsed text.
	Offset int

	// Pos is Offset expressed as line, column and byte offset.
	Pos hcl.Pos

	// Context is the source window around Offset, see Render.
	Context string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Is matches errors of the same kind, so errors.Is(err, &Error{Kind: k})
// works as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// IsKind reports whether err is, or wraps, a parse error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// newError builds a positioned error against the full source.
func newError(src []rune, kind ErrorKind, offset int, format string, args ...any) *Error {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Pos:     position(src, offset),
		Context: contextWindow(src, offset),
	}
}

// position converts a character index into an hcl.Pos. Lines and columns
// start at 1.
func position(src []rune, offset int) hcl.Pos {
	pos := hcl.Pos{Line: 1, Column: 1}
	for _, r := range src[:offset] {
		pos.Byte += utf8.RuneLen(r)
		if r == '\n' {
			pos.Line++
			pos.Column = 1
			continue
		}
		pos.Column++
	}
	return pos
}
