// Package skiplog tallies rows dropped during a run by reason and, when a
// directory is configured, appends each dropped row to a CSV trail so it
// can be inspected after the run.
package skiplog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileName is the trail file created under the configured directory.
const FileName = "skipped_sales.csv"

// Header is the first row of the trail.
var Header = []string{
	"reason", "transaction_id", "customer_id", "product_id",
	"transaction_date", "quantity", "unit_price", "status",
}

// Log counts dropped rows per reason. The zero value counts without a trail.
type Log struct {
	counts map[string]int
	f      *os.File
	w      *csv.Writer
}

// New returns a Log writing its trail under dir. An empty dir disables the
// trail.
func New(dir string) (*Log, error) {
	l := &Log{counts: map[string]int{}}
	if dir == "" {
		return l, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("skiplog: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("skiplog: create %s: %w", path, err)
	}
	l.f, l.w = f, csv.NewWriter(f)
	if err := l.w.Write(Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("skiplog: write header: %w", err)
	}
	return l, nil
}

// Add counts one dropped row under reason and appends it to the trail.
func (l *Log) Add(reason string, fields []string) error {
	if l.counts == nil {
		l.counts = map[string]int{}
	}
	l.counts[reason]++
	if l.w == nil {
		return nil
	}
	rec := make([]string, 0, len(fields)+1)
	rec = append(rec, reason)
	rec = append(rec, fields...)
	if err := l.w.Write(rec); err != nil {
		return fmt.Errorf("skiplog: write: %w", err)
	}
	return nil
}

// Count returns the rows dropped for reason.
func (l *Log) Count(reason string) int { return l.counts[reason] }

// Total returns the rows dropped for any reason.
func (l *Log) Total() int {
	n := 0
	for _, c := range l.counts {
		n += c
	}
	return n
}

// Reasons returns every reason seen, sorted.
func (l *Log) Reasons() []string {
	out := make([]string, 0, len(l.counts))
	for r := range l.counts {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Path returns the trail path, or "" when no trail is written.
func (l *Log) Path() string {
	if l.f == nil {
		return ""
	}
	return l.f.Name()
}

// Close flushes and closes the trail.
func (l *Log) Close() error {
	if l.w == nil {
		return nil
	}
	l.w.Flush()
	werr := l.w.Error()
	cerr := l.f.Close()
	l.w, l.f = nil, nil
	if werr != nil {
		return fmt.Errorf("skiplog: flush: %w", werr)
	}
	return cerr
}
