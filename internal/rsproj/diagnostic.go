package rsproj

import (
	"strings"
)

const (
	// windowRadius is how many characters are shown on each side of the
	// failing position.
	windowRadius = 10

	// windowLead is the width the leading half of the window is padded to,
	// which keeps the caret in a fixed column.
	windowLead = windowRadius + 1
)

// contextWindow renders up to ten characters before and after offset,
// clipped at the nearest line break on either side. The leading part is
// padded so that the character at offset always lands in the same column.
func contextWindow(src []rune, offset int) string {
	lo := max(offset-windowRadius, 0)
	hi := min(offset+windowRadius, len(src))

	before := src[lo:offset]
	if i := lastIndex(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	after := src[offset:hi]
	if i := index(after, '\n'); i >= 0 {
		after = after[:i]
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", windowLead-len(before)))
	b.WriteString(string(before))
	b.WriteString(string(after))
	return b.String()
}

// Render formats the error the way the command line reports it: the
// message, the source window and a caret under the failing character.
func (e *Error) Render() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.Message)
	b.WriteString("\n | ")
	b.WriteString(e.Context)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", len(" | ")+windowLead))
	b.WriteString("^\n")
	return b.String()
}

// printable names a character in an error message. Control characters are
// escaped and end of input reads as "nothing".
func printable(r rune, ok bool) string {
	if !ok {
		return "nothing"
	}
	switch r {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\v':
		return `\v`
	}
	return string(r)
}

func index(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}

func lastIndex(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
