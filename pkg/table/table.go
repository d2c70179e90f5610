// Package table reads and writes the tabular files processed by regrade.
// Spreadsheets (.xlsx) and comma separated files (.csv) are supported; the
// first row is always the header.
package table

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	ExtXLSX = ".xlsx"
	ExtCSV  = ".csv"

	// DefaultSuffix is appended to the input base name to form the output name.
	DefaultSuffix = "_adjusted"

	defaultSheet = "Sheet1"
	fileMode     = 0600
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than xlsx and csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Table is an in-memory copy of a tabular file.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cell returns the value at row and col. The bool is false when the row is
// shorter than col.
func (t *Table) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return "", false
	}
	return t.Rows[row][col], true
}

// AddColumns appends the named columns to the header, after the widest
// row, and returns the index of the first new column. Rows are padded when
// a value is Set.
func (t *Table) AddColumns(names ...string) int {
	width := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for len(t.Header) < width {
		t.Header = append(t.Header, "")
	}
	start := len(t.Header)
	t.Header = append(t.Header, names...)
	return start
}

// Set stores v at row and col, padding the row with empty cells as needed.
func (t *Table) Set(row, col int, v string) {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return
	}
	r := t.Rows[row]
	for len(r) <= col {
		r = append(r, "")
	}
	r[col] = v
	t.Rows[row] = r
}

// ColumnIndex returns the index of the header named name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Read loads the file at path, picking the format from its extension.
func Read(path string) (*Table, error) {
	switch ext(path) {
	case ExtXLSX:
		return readXLSX(path)
	case ExtCSV:
		return readCSV(path)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "reading %s", path)
	}
}

// Write saves t to path, picking the format from its extension.
func Write(path string, t *Table) error {
	if t == nil {
		return errors.New("table required")
	}
	switch ext(path) {
	case ExtXLSX:
		return writeXLSX(path, t)
	case ExtCSV:
		return writeCSV(path, t)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "writing %s", path)
	}
}

// OutputPath derives the output file from input: same directory and
// extension, with suffix added to the base name.
func OutputPath(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	dir := filepath.Dir(input)
	e := filepath.Ext(input)
	base := strings.TrimSuffix(filepath.Base(input), e)
	return filepath.Join(dir, base+suffix+e)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
