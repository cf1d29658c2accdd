// Package csv reads the fixed-shape raw extracts into header-indexed tables.
//
// The extracts are small enough to hold in memory for a single run, so the
// reader buffers all rows. Ragged rows are tolerated: short rows are padded
// with blank cells and surplus cells are dropped.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("csv: missing header row")

// Table is an in-memory CSV extract. Rows are aligned to Header.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return headers
}

// ReadTable parses r as comma-separated values with a header row. Header
// names are trimmed and lower-cased so lookups are case-insensitive.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // width enforced below
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = StripHeaderBOM(append([]string(nil), header...))

	t := &Table{Header: make([]string, len(header)), index: make(map[string]int, len(header))}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		t.Header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	width := len(t.Header)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if isBlankRecord(rec) {
			continue
		}
		row := make([]string, width)
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// isBlankRecord reports whether every cell of rec is empty.
func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}

// Require returns an error naming every column in cols that the header
// lacks.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// Get returns the cell of row i under column col, or "" when the column is
// unknown.
func (t *Table) Get(i int, col string) string {
	j, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.Rows[i][j]
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }
