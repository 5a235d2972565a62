package rsproj

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextWindow(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		src      string
		offset   int
		expected string
	}{
		{
			name:     "short line is padded",
			src:      "hello world",
			offset:   6,
			expected: "     hello world",
		},
		{
			name:     "long line is cut to ten characters each side",
			src:      "abcdefghijklmnopqrstuvwxyz0123456789",
			offset:   15,
			expected: " fghijklmnopqrstuvwxy",
		},
		{
			name:     "clipped at line breaks",
			src:      "abc\ndefgh\nij",
			offset:   6,
			expected: "         defgh",
		},
		{
			name:     "at end of input",
			src:      "key: \"abc",
			offset:   9,
			expected: "  key: \"abc",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := contextWindow([]rune(tc.src), tc.offset)

			require.Equal(t, tc.expected, got)
		})
	}
}

func TestError_Render(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	_, err := Parse("A {\n  build {\n    age: 12a\n  }\n}")
	var perr *Error
	require.ErrorAs(t, err, &perr)

	// --- Act ---
	out := perr.Render()

	// --- Assert ---
	lines := strings.Split(out, "\n")
	require.Equal(t, "Error: expected a number, but found a", lines[0])
	require.Equal(t, " | "+"    age: 12a", lines[1])
	require.Equal(t, strings.Repeat(" ", 14)+"^", lines[2])

	caret := strings.Index(lines[2], "^")
	require.Equal(t, byte('a'), lines[1][caret], "caret must sit under the failing character")
}

func TestError_KindMatching(t *testing.T) {
	t.Parallel()

	_, err := Parse("A { use B }")
	require.Error(t, err)

	require.True(t, errors.Is(err, &Error{Kind: KindSemantic}))
	require.False(t, errors.Is(err, &Error{Kind: KindNesting}))
	require.True(t, IsKind(err, KindSemantic))
	require.Contains(t, err.Error(), "1:9: no job with the name B found")
}
