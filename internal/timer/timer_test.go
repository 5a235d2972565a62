package timer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock advances by step on every call.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestFormatLength(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0ms"},
		{in: 1999 * time.Millisecond, want: "1999ms"},
		{in: 2 * time.Second, want: "2.000s"},
		{in: 90500 * time.Millisecond, want: "90.500s"},
		{in: 2 * time.Minute, want: "2.000m"},
		{in: 90 * time.Minute, want: "90.000m"},
		{in: 2 * time.Hour, want: "2.000hr"},
		{in: 3*time.Hour + 30*time.Minute, want: "3.500hr"},
		{in: -1, want: "-"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, FormatLength(tc.in))
		})
	}
}

func TestTimer_StartEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	start := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	tm := New()
	tm.now = fakeClock(start, time.Second)

	// --- Act ---
	endA := tm.Start("a")
	endB := tm.Start("b")
	endB()
	endA()

	// --- Assert ---
	records := tm.Records()
	require.Len(t, records, 2)
	require.Equal(t, "a", records[0].Name)
	require.Equal(t, 3*time.Second, records[0].Length())
	require.Equal(t, "b", records[1].Name)
	require.Equal(t, time.Second, records[1].Length())
	require.Panics(t, endA, "ending a phase twice must panic")
}

func TestTimer_Print(t *testing.T) {
	t.Parallel()

	tm := New()
	tm.now = fakeClock(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), time.Second)
	tm.Start("parse")()
	tm.Start("never ends")

	var buf bytes.Buffer
	require.NoError(t, tm.Print(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Regexp(t, `^NAME\s+LENGTH\s+START\s+END$`, lines[0])
	require.Regexp(t, `^parse\s+1000ms\s+10:00:00\s+10:00:01$`, lines[1])
	require.Regexp(t, `^never ends\s+-\s+10:00:02\s+-$`, lines[2])
	require.Regexp(t, `^Time Taken\s+3.000s\s+10:00:00\s+10:00:03$`, lines[3])
}

func TestTimer_WriteJSON(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	start := time.Date(2024, 3, 5, 9, 7, 3, 0, time.UTC)
	tm := New()
	tm.now = fakeClock(start, 10*time.Millisecond)
	tm.Start("step")()
	tm.Start("step")()

	// --- Act ---
	path, err := tm.WriteJSON(dir)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(path))
	require.Regexp(t, `^profiling-redstart-5-3-2024-09-7-3\.json$`, filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report map[string][]ReportEntry
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report["step"], 2)
	require.Equal(t, 1, report["step"][0].ID)
	require.Equal(t, int64(10), report["step"][0].Length)
	require.Equal(t, 2, report["step"][1].ID)
}
