// Package table provides the in-memory tabular model consumed by the
// analysis engine. A Table holds raw string cells column-major with
// explicit missing-value markers; it carries no type information, which
// is inferred later by the analysis package.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTable is returned when a table violates structural invariants:
// zero columns, duplicate column names, or columns of unequal length.
var ErrInvalidTable = errors.New("invalid table")

// Value is a single raw cell. Missing cells carry no text.
type Value struct {
	Text    string
	Missing bool
}

// Text returns a present cell value.
func Text(s string) Value { return Value{Text: s} }

// MissingValue is the explicit missing-value marker.
var MissingValue = Value{Missing: true}

// Table is an immutable column-major table of raw cells.
// Construct via New or LoadCSV; the zero value is not usable.
type Table struct {
	columns []string
	index   map[string]int
	cells   [][]Value
	rows    int
}

// New builds a Table from ordered column names and column-major cells.
// It fails fast with ErrInvalidTable on structural problems so that
// downstream profiling never has to re-check shape invariants.
func New(columns []string, cells [][]Value) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: table has no columns", ErrInvalidTable)
	}
	if len(cells) != len(columns) {
		return nil, fmt.Errorf("%w: %d columns named but %d cell columns supplied",
			ErrInvalidTable, len(columns), len(cells))
	}

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", ErrInvalidTable, i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column name %q", ErrInvalidTable, name)
		}
		index[name] = i
	}

	rows := len(cells[0])
	for i, col := range cells {
		if len(col) != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrInvalidTable, columns[i], len(col), rows)
		}
	}

	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		cells:   cells,
		rows:    rows,
	}, nil
}

// Columns returns the ordered column names as a copy.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// Name returns the name of column i.
func (t *Table) Name(i int) string { return t.columns[i] }

// Column returns the cells of column i. Callers must not mutate the slice.
func (t *Table) Column(i int) []Value { return t.cells[i] }

// Index returns the position of the named column.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Row materializes row i as name→value, with nil for missing cells.
// Used by the serving layer for sample-row previews; the analysis core
// never needs row access.
func (t *Table) Row(i int) map[string]any {
	out := make(map[string]any, len(t.columns))
	for c, name := range t.columns {
		v := t.cells[c][i]
		if v.Missing {
			out[name] = nil
		} else {
			out[name] = v.Text
		}
	}
	return out
}

// missingMarkers are cell spellings treated as explicit missing values,
// matched case-insensitively after trimming. Mirrors the usual CSV
// conventions for exported nulls.
var missingMarkers = map[string]bool{
	"":     true,
	"null": true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"none": true,
}

// IsMissingMarker reports whether a raw cell spelling denotes a missing value.
func IsMissingMarker(s string) bool {
	return missingMarkers[strings.ToLower(strings.TrimSpace(s))]
}
