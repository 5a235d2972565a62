package rsproj

// scanner is a character cursor over src[pos:end]. Positions are absolute
// indexes into src, so errors raised while scanning a nested body point at
// the right place in the whole document.
type scanner struct {
	src []rune
	pos int
	end int
}

func newScanner(src []rune, lo, hi int) *scanner {
	return &scanner{src: src, pos: lo, end: hi}
}

// peek returns the current character without consuming it. ok is false at
// the end of the range.
func (s *scanner) peek() (r rune, ok bool) {
	if s.pos >= s.end {
		return 0, false
	}
	return s.src[s.pos], true
}

// next consumes and returns the current character.
func (s *scanner) next() (r rune, ok bool) {
	r, ok = s.peek()
	if ok {
		s.pos++
	}
	return r, ok
}

func (s *scanner) eof() bool { return s.pos >= s.end }

func (s *scanner) skipSpace() {
	for {
		r, ok := s.peek()
		if !ok || !isSpace(r) {
			return
		}
		s.pos++
	}
}

// word consumes characters up to the next whitespace or opening brace.
func (s *scanner) word() string {
	start := s.pos
	for {
		r, ok := s.peek()
		if !ok || isSpace(r) || r == '{' {
			break
		}
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// block consumes a brace-delimited body starting at the current '{' and
// returns the range between the delimiters. Nesting is tracked with a depth
// counter; the body ends where the depth drops below zero.
func (s *scanner) block() (lo, hi int, err error) {
	r, ok := s.peek()
	if !ok || r != '{' {
		return 0, 0, newError(s.src, KindNesting, s.pos, "expected {, but found %s", printable(r, ok))
	}
	s.pos++
	lo = s.pos

	depth := 0
	for {
		r, ok := s.next()
		if !ok {
			return 0, 0, newError(s.src, KindNesting, s.pos, "expected }, but found nothing")
		}
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth < 0 {
			return lo, s.pos - 1, nil
		}
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\n', '\r', '\t', '\v':
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
