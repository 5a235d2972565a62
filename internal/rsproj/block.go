package rsproj

import (
	"unicode"
)

// ParseBlock parses the body of a settings or option block.
func ParseBlock(text string) (ConfigMap, error) {
	src := []rune(text)
	return parseBlock(src, 0, len(src))
}

// parseBlock parses src[lo:hi] as `key: value` lines. Blank lines are
// skipped. A key declared more than once collects every value, in order,
// into a single array.
func parseBlock(src []rune, lo, hi int) (ConfigMap, error) {
	config := ConfigMap{}

	for start := lo; start < hi; {
		end := start + lineLength(src[start:hi])
		next := end + 1

		keyLo, keyHi := trim(src, start, end)
		if keyLo == keyHi {
			start = next
			continue
		}

		colon := index(src[start:end], ':')
		if colon < 0 {
			return nil, newError(src, KindLexical, keyHi, "no value defined")
		}
		colon += start

		keyLo, keyHi = trim(src, start, colon)
		key := string(src[keyLo:keyHi])

		valueLo, valueHi := trim(src, colon+1, end)
		value, err := parseValue(src, valueLo, valueHi)
		if err != nil {
			return nil, err
		}

		if prev, ok := config[key]; ok {
			config[key] = prev.merge(value)
		} else {
			config[key] = value
		}
		start = next
	}

	return config, nil
}

// lineLength returns the number of characters before the first line break.
func lineLength(rs []rune) int {
	if i := index(rs, '\n'); i >= 0 {
		return i
	}
	return len(rs)
}

// trim narrows [lo, hi) past leading and trailing whitespace.
func trim(src []rune, lo, hi int) (int, int) {
	for lo < hi && unicode.IsSpace(src[lo]) {
		lo++
	}
	for hi > lo && unicode.IsSpace(src[hi-1]) {
		hi--
	}
	return lo, hi
}
