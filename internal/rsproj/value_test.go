package rsproj

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected Value
	}{
		{name: "single string", input: `"solo"`, expected: Single(Str("solo"))},
		{name: "two strings form an array", input: `"a" "b"`, expected: Array(Str("a"), Str("b"))},
		{name: "number", input: `12`, expected: Single(Num(12))},
		{name: "true", input: `true`, expected: Single(Bool(true))},
		{name: "false", input: `false`, expected: Single(Bool(false))},
		{name: "mixed kinds", input: `1 "x" false`, expected: Array(Num(1), Str("x"), Bool(false))},
		{name: "surrounding whitespace", input: "  \t\"x\"  ", expected: Single(Str("x"))},
		{name: "newline escape", input: `"a\nb"`, expected: Single(Str("a\nb"))},
		{name: "escaped quote", input: `"say \"hi\""`, expected: Single(Str(`say "hi"`))},
		{name: "unknown escape is dropped", input: `"a\tb"`, expected: Single(Str("ab"))},
		{name: "string adjacent to value", input: `"a""b"`, expected: Array(Str("a"), Str("b"))},
		{name: "empty string", input: `""`, expected: Single(Str(""))},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseValue(tc.input)

			require.NoError(t, err)
			require.True(t, tc.expected.Equal(got), "expected %v, got %v", tc.expected.Interface(), got.Interface())
		})
	}
}

func TestParseValue_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		input          string
		expectedKind   ErrorKind
		expectedMsg    string
		expectedOffset int
	}{
		{
			name:           "letter inside a number",
			input:          `12a`,
			expectedKind:   KindLexical,
			expectedMsg:    "expected a number, but found a",
			expectedOffset: 2,
		},
		{
			name:           "unknown word",
			input:          `maybe`,
			expectedKind:   KindLexical,
			expectedMsg:    "word maybe is not a valid word",
			expectedOffset: 0,
		},
		{
			name:           "words are case sensitive",
			input:          `"x" True`,
			expectedKind:   KindLexical,
			expectedMsg:    "word True is not a valid word",
			expectedOffset: 4,
		},
		{
			name:           "unterminated string",
			input:          `"abc`,
			expectedKind:   KindLexical,
			expectedMsg:    `expected ", but found nothing`,
			expectedOffset: 4,
		},
		{
			name:           "negative numbers are not numbers",
			input:          `-1`,
			expectedKind:   KindLexical,
			expectedMsg:    "word -1 is not a valid word",
			expectedOffset: 0,
		},
		{
			name:           "decimal point",
			input:          `1.5`,
			expectedKind:   KindLexical,
			expectedMsg:    "expected a number, but found .",
			expectedOffset: 1,
		},
		{
			name:           "line break inside the value",
			input:          "\"a\nb\"",
			expectedKind:   KindLexical,
			expectedMsg:    "a value cannot include a new line",
			expectedOffset: 2,
		},
		{
			name:           "nothing at all",
			input:          "   ",
			expectedKind:   KindSemantic,
			expectedMsg:    "no value defined",
			expectedOffset: 0,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseValue(tc.input)

			var perr *Error
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tc.expectedKind, perr.Kind)
			require.Equal(t, tc.expectedMsg, perr.Message)
			require.Equal(t, tc.expectedOffset, perr.Offset)
		})
	}
}

func TestValue_ToCty(t *testing.T) {
	t.Parallel()

	single := Single(Str("x")).ToCty()
	require.Equal(t, "x", single.AsString())

	arr := Array(Num(1), Str("a")).ToCty()
	require.True(t, arr.Type().IsTupleType())
	require.Equal(t, 2, arr.LengthInt())
}

func TestValue_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "12", Single(Num(12)).String())
	require.Equal(t, "true", Single(Bool(true)).String())
	require.Equal(t, "a,1,false", Array(Str("a"), Num(1), Bool(false)).String())
}

func TestScalar_Kind(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scalar   Scalar
		expected ScalarKind
		name     string
	}{
		{scalar: Str("x"), expected: ScalarString, name: "string"},
		{scalar: Num(3), expected: ScalarNumber, name: "number"},
		{scalar: Bool(false), expected: ScalarBool, name: "bool"},
		{scalar: Scalar{}, expected: 0, name: "invalid"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expected, tc.scalar.Kind())
			require.Equal(t, tc.name, tc.scalar.Kind().String())
		})
	}
}
