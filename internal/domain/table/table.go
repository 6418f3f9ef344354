// Package table holds an in-memory tabular dataset with normalized column names.
package table

import (
	"strings"
)

const utf8BOM = "\ufeff"

// nullTokens are the cell spellings read as missing values, matching the
// defaults of common dataframe CSV readers.
var nullTokens = map[string]struct{}{ //nolint:gochecknoglobals // read-only lookup
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNull reports whether a raw cell value counts as missing.
func IsNull(v string) bool {
	_, ok := nullTokens[v]
	return ok
}

// Table is an immutable header plus rows of raw string cells.
type Table struct {
	columns []string
	rows    [][]string
	index   map[string]int
}

// New builds a Table, trimming whitespace (and a leading BOM) from every
// column name. When two columns normalize to the same name the first wins.
func New(columns []string, rows [][]string) *Table {
	t := &Table{
		columns: make([]string, len(columns)),
		rows:    rows,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		name := NormalizeColumn(c)
		t.columns[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	return t
}

// NormalizeColumn strips a byte-order mark and surrounding whitespace.
func NormalizeColumn(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
}

// Columns returns a copy of the normalized header.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Has reports whether the named column exists.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Index returns the position of the named column.
func (t *Table) Index(column string) (int, bool) {
	i, ok := t.index[column]
	return i, ok
}

// Cell returns the raw value at (row, col) and whether it is non-null.
// Cells past the end of a short row are null.
func (t *Table) Cell(row, col int) (string, bool) {
	r := t.rows[row]
	if col < 0 || col >= len(r) {
		return "", false
	}
	v := r[col]
	if IsNull(v) {
		return v, false
	}
	return v, true
}

// Value returns the named column's cell for row, or "" when null or absent.
func (t *Table) Value(row int, column string) string {
	col, ok := t.index[column]
	if !ok {
		return ""
	}
	v, ok := t.Cell(row, col)
	if !ok {
		return ""
	}
	return v
}
