// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"fmt"
)

// Table is an immutable, row-indexed table with typed list columns.
type Table struct {
	columns []string
	lists   map[string]bool
	index   map[string]int
	rows    [][]any
}

// NewTable builds a table from raw rows and types the named list columns.
// Every list column must exist.
func NewTable(columns []string, rows [][]any, listColumns []string) (*Table, error) {
	t := &Table{
		columns: append([]string(nil), columns...),
		lists:   make(map[string]bool, len(listColumns)),
		index:   make(map[string]int, len(columns)),
		rows:    rows,
	}
	for i, c := range columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}

	for _, name := range listColumns {
		col, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: list column %q", ErrMissingColumn, name)
		}
		t.lists[name] = true
		for r, row := range rows {
			if col >= len(row) {
				return nil, fmt.Errorf("%w: row %d is short", ErrShapeMismatch, r)
			}
			list, err := toStringList(row[col])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", r, name, err)
			}
			row[col] = list
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Column returns the position of a column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// IsList reports whether the column was typed as a string list.
func (t *Table) IsList(name string) bool {
	return t.lists[name]
}

// Value returns the cell at (row, col).
func (t *Table) Value(row, col int) any {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return nil
	}
	return t.rows[row][col]
}

// Record returns row as an ordered record.
func (t *Table) Record(row int) Record {
	if row < 0 || row >= len(t.rows) {
		return Record{}
	}
	src := t.rows[row]
	fields := make([]Field, len(t.columns))
	for i, name := range t.columns {
		var v any
		if i < len(src) {
			v = src[i]
		}
		fields[i] = Field{Name: name, Value: v}
	}
	return Record{fields: fields}
}
