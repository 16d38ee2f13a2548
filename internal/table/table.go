// Package table provides the in-memory tabular model shared by the whole
// pipeline. A Table is an ordered set of named columns over string cells;
// absent values are empty strings. Every pipeline stage consumes a Table
// and produces a new one.
package table

import (
	"sort"
	"strings"
)

// Row maps column name to cell value.
type Row map[string]string

// Table is an ordered, in-memory tabular dataset.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column if not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// RemoveColumn drops a column and its cells.
func (t *Table) RemoveColumn(name string) {
	out := t.Columns[:0]
	for _, c := range t.Columns {
		if c != name {
			out = append(out, c)
		}
	}
	t.Columns = out
	for _, row := range t.Rows {
		delete(row, name)
	}
}

// AddRow appends a row. Cells for undeclared columns are kept in the map
// but invisible until the column is declared.
func (t *Table) AddRow(r Row) {
	if r == nil {
		r = Row{}
	}
	t.Rows = append(t.Rows, r)
}

// Get returns the cell at (row, column), or "" when absent.
func (t *Table) Get(i int, col string) string {
	if i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][col]
}

// Set writes the cell at (row, column), declaring the column if needed.
func (t *Table) Set(i int, col string, val string) {
	if i < 0 || i >= len(t.Rows) {
		return
	}
	t.AddColumn(col)
	t.Rows[i][col] = val
}

// ColumnHasContent reports whether any cell in the column is non-blank
// after whitespace stripping.
func (t *Table) ColumnHasContent(col string) bool {
	for _, row := range t.Rows {
		if strings.TrimSpace(row[col]) != "" {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		nr := make(Row, len(row))
		for k, v := range row {
			nr[k] = v
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// Select returns a new table restricted to the given columns, in the given
// order. Missing columns are materialized as empty.
func (t *Table) Select(columns ...string) *Table {
	out := New(columns...)
	for _, row := range t.Rows {
		nr := make(Row, len(columns))
		for _, c := range columns {
			nr[c] = row[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// SortBy stable-sorts rows ascending by the given columns.
func (t *Table) SortBy(columns ...string) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		for _, c := range columns {
			a, b := t.Rows[i][c], t.Rows[j][c]
			if a != b {
				return a < b
			}
		}
		return false
	})
}

// Filter returns a new table with the rows for which keep returns true.
// Column order is preserved.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.Columns...)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
