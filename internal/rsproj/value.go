package rsproj

import (
	"strconv"
	"strings"
)

// ParseValue parses the text after a key's colon into a scalar or an array
// of scalars.
func ParseValue(text string) (Value, error) {
	src := []rune(text)
	return parseValue(src, 0, len(src))
}

// parseValue parses src[lo:hi] as a value line. Tokens are separated by
// whitespace; one token yields a scalar, several yield an array.
func parseValue(src []rune, lo, hi int) (Value, error) {
	if i := index(src[lo:hi], '\n'); i >= 0 {
		return Value{}, newError(src, KindLexical, lo+i, "a value cannot include a new line")
	}

	s := newScanner(src, lo, hi)
	var items []Scalar
	for {
		s.skipSpace()
		r, ok := s.peek()
		if !ok {
			break
		}

		var (
			item Scalar
			err  error
		)
		switch {
		case r == '"':
			item, err = s.str()
		case isDigit(r):
			item, err = s.number()
		default:
			item, err = s.boolean()
		}
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}

	switch len(items) {
	case 0:
		return Value{}, newError(src, KindSemantic, lo, "no value defined")
	case 1:
		return Single(items[0]), nil
	default:
		return Value{items: items, array: true}, nil
	}
}

// str reads a quoted string. A backslash escapes the following character:
// \n becomes a line break and \" a quote. Any other escaped character is
// dropped.
func (s *scanner) str() (Scalar, error) {
	s.pos++ // opening quote

	var b strings.Builder
	escaped := false
	for {
		r, ok := s.next()
		if !ok {
			return Scalar{}, newError(s.src, KindLexical, s.pos, `expected ", but found nothing`)
		}
		switch {
		case escaped:
			escaped = false
			switch r {
			case 'n':
				b.WriteRune('\n')
			case '"':
				b.WriteRune('"')
			}
		case r == '"':
			return Str(b.String()), nil
		case r == '\\':
			escaped = true
		default:
			b.WriteRune(r)
		}
	}
}

// number reads a run of decimal digits. Signs and decimal points are not
// part of the format.
func (s *scanner) number() (Scalar, error) {
	start := s.pos
	for {
		r, ok := s.peek()
		if !ok || isSpace(r) {
			break
		}
		if !isDigit(r) {
			return Scalar{}, newError(s.src, KindLexical, s.pos, "expected a number, but found %s", printable(r, ok))
		}
		s.pos++
	}

	digits := string(s.src[start:s.pos])
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Scalar{}, newError(s.src, KindLexical, start, "number %s is out of range", digits)
	}
	return Num(n), nil
}

// boolean reads a bare word, which must be true or false.
func (s *scanner) boolean() (Scalar, error) {
	start := s.pos
	for {
		r, ok := s.peek()
		if !ok || isSpace(r) {
			break
		}
		s.pos++
	}

	switch word := string(s.src[start:s.pos]); word {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	default:
		return Scalar{}, newError(s.src, KindLexical, start, "word %s is not a valid word", word)
	}
}
