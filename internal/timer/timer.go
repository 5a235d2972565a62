// Package timer records how long the named phases of a run take and renders
// the result as a table or as a JSON profiling report.
package timer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"text/tabwriter"
	"time"
)

// Record is one timed phase. End is zero while the phase is still running.
type Record struct {
	ID    int       `json:"id"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Length returns how long the phase took, or -1 if it has not ended.
func (r Record) Length() time.Duration {
	if r.End.IsZero() {
		return -1
	}
	return r.End.Sub(r.Start)
}

// Timer collects records. It is safe for concurrent use.
type Timer struct {
	mu      sync.Mutex
	now     func() time.Time
	begin   time.Time
	records []*Record
}

// New returns an empty Timer.
func New() *Timer {
	return &Timer{now: time.Now}
}

// Start begins a phase and returns the function that ends it. Ending the
// same phase twice panics.
func (t *Timer) Start(name string) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.begin.IsZero() {
		t.begin = now
	}
	rec := &Record{ID: len(t.records) + 1, Name: name, Start: now}
	t.records = append(t.records, rec)

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if !rec.End.IsZero() {
			panic(fmt.Sprintf("%s was already ended", name))
		}
		rec.End = t.now()
	}
}

// Records returns a copy of all records in start order.
func (t *Timer) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Record, len(t.records))
	for i, r := range t.records {
		out[i] = *r
	}
	return out
}

// Print writes a table of all records followed by the total time since the
// first phase started.
func (t *Timer) Print(w io.Writer) error {
	records := t.Records()
	t.mu.Lock()
	begin, now := t.begin, t.now()
	t.mu.Unlock()
	if begin.IsZero() {
		begin = now
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLENGTH\tSTART\tEND")
	for _, r := range records {
		end := "-"
		if !r.End.IsZero() {
			end = clock(r.End)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, FormatLength(r.Length()), clock(r.Start), end)
	}
	fmt.Fprintf(tw, "Time Taken\t%s\t%s\t%s\n", FormatLength(now.Sub(begin)), clock(begin), clock(now))
	return tw.Flush()
}

// ReportEntry is one record in the profiling report.
type ReportEntry struct {
	ID     int   `json:"id"`
	Start  int64 `json:"start"`
	End    int64 `json:"end"`
	Length int64 `json:"length"`
}

// Report groups the records by name. Times are Unix milliseconds; a phase
// that has not ended has end and length -1.
func (t *Timer) Report() map[string][]ReportEntry {
	report := make(map[string][]ReportEntry)
	for _, r := range t.Records() {
		e := ReportEntry{ID: r.ID, Start: r.Start.UnixMilli(), End: -1, Length: -1}
		if !r.End.IsZero() {
			e.End = r.End.UnixMilli()
			e.Length = r.Length().Milliseconds()
		}
		report[r.Name] = append(report[r.Name], e)
	}
	return report
}

// WriteJSON writes the report to profiling-redstart-<date>.json in dir and
// returns the file's path.
func (t *Timer) WriteJSON(dir string) (string, error) {
	data, err := json.Marshal(t.Report())
	if err != nil {
		return "", fmt.Errorf("failed to encode profiling report: %w", err)
	}

	t.mu.Lock()
	stamp := t.now().Format("2-1-2006-15-4-5")
	t.mu.Unlock()

	path := filepath.Join(dir, "profiling-redstart-"+stamp+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write profiling report: %w", err)
	}
	return path, nil
}

// FormatLength renders a duration in the largest unit that keeps the number
// readable: whole milliseconds below two seconds, then seconds, minutes and
// hours with three decimals. A negative length means the phase never ended.
func FormatLength(d time.Duration) string {
	switch {
	case d < 0:
		return "-"
	case d < 2*time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < 2*time.Minute:
		return fmt.Sprintf("%.3fs", d.Seconds())
	case d < 2*time.Hour:
		return fmt.Sprintf("%.3fm", d.Minutes())
	default:
		return fmt.Sprintf("%.3fhr", d.Hours())
	}
}

func clock(t time.Time) string {
	return t.Format("15:04:05")
}
