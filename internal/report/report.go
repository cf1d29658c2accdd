// Package report renders the data-quality report of a run: an ordered list
// of titled sections of labelled statistics and free-text notes. Every
// statistic added is also written to the log as it is recorded.
package report

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Report is an ordered text document.
type Report struct {
	title    string
	header   []string
	sections []*Section
}

// Section is a titled block of the report.
type Section struct {
	title string
	lines []line
}

type line struct {
	label string // empty for notes
	value string
}

// New starts a report with the given title.
func New(title string) *Report { return &Report{title: title} }

// Header adds a "label: value" line directly under the title.
func (r *Report) Header(label string, value any) {
	v := fmt.Sprint(value)
	r.header = append(r.header, label+": "+v)
	log.Printf("report: %s=%s", label, v)
}

// Section appends a new section and returns it.
func (r *Report) Section(title string) *Section {
	s := &Section{title: title}
	r.sections = append(r.sections, s)
	return s
}

// Stat adds a labelled statistic.
func (s *Section) Stat(label string, value any) *Section {
	v := fmt.Sprint(value)
	s.lines = append(s.lines, line{label: label, value: v})
	log.Printf("report: section=%q %s=%s", s.title, label, v)
	return s
}

// Note adds a bulleted free-text line.
func (s *Section) Note(format string, args ...any) *Section {
	text := fmt.Sprintf(format, args...)
	s.lines = append(s.lines, line{value: text})
	log.Printf("report: section=%q note=%q", s.title, text)
	return s
}

// Render returns the report text. Labels within a section are aligned.
func (r *Report) Render() string {
	var b strings.Builder
	b.WriteString(r.title)
	b.WriteByte('\n')
	for _, h := range r.header {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	for _, s := range r.sections {
		b.WriteByte('\n')
		b.WriteString(s.title)
		b.WriteString(":\n")
		width := 0
		for _, l := range s.lines {
			width = max(width, len(l.label))
		}
		for _, l := range s.lines {
			if l.label == "" {
				fmt.Fprintf(&b, "  - %s\n", l.value)
				continue
			}
			fmt.Fprintf(&b, "  %-*s %s\n", width+1, l.label+":", l.value)
		}
	}
	return b.String()
}

// WriteTo writes the rendered report to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.Render())
	return int64(n), err
}

// WriteFile writes the rendered report to path, replacing any previous
// report.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	if _, err := r.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", path, err)
	}
	log.Printf("report: written path=%s", path)
	return nil
}
