// Package csvio reads and writes the CSV files exchanged with spreadsheet
// tools: the product source file and the backup snapshot.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader positioned after a leading UTF-8 byte order mark.
// Windows tools commonly prepend one, which would otherwise end up glued to
// the first header cell.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// NewReader returns a csv.Reader tolerant of ragged rows and leading spaces.
func NewReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(SkipBOM(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// ReadFile reads every record of a CSV file.
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, err := NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return records, nil
}

// HeaderIndex maps cleaned, lower-cased column names to their position.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a header row.
// Call it once per file and reuse it for every row.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}

// Require reports the first column in names that the header lacks.
func (h HeaderIndex) Require(names ...string) error {
	for _, name := range names {
		if _, ok := h[strings.ToLower(name)]; !ok {
			return fmt.Errorf("missing required column %q", name)
		}
	}
	return nil
}

// Cell returns the cleaned value of column name in row, or "" when the row
// is too short or the column is unknown.
func (h HeaderIndex) Cell(row []string, name string) string {
	pos, ok := h[strings.ToLower(name)]
	if !ok || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}

// Text returns the value of column name in row with only surrounding
// whitespace removed. Use it for free-text cells such as names, where quotes
// and a leading "=" are part of the value.
func (h HeaderIndex) Text(row []string, name string) string {
	pos, ok := h[strings.ToLower(name)]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace, an Excel formula prefix (="...") and stray quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// IsBlank reports whether every cell in row is empty.
func IsBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
