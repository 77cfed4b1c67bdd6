// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"strings"
)

// Alignment controls how a column's content is justified.
type Alignment int

const (
	// AlignLeft pads on the right (default).
	AlignLeft Alignment = iota
	// AlignRight pads on the left.
	AlignRight
)

// ColorFunc maps a cell value to a colored string. If nil, no color is applied.
type ColorFunc func(value string) string

// Column describes a single table column.
type Column struct {
	Header string
	Align  Alignment
	Color  ColorFunc
}

// Table renders aligned text tables.
type Table struct {
	columns []Column
	rows    [][]string
}

// NewTable creates a table with the given column definitions.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// AddRow appends a row. Extra values are ignored and missing ones are empty.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the table to w: a bold header, a dashed rule and the rows.
func (t *Table) Render(w io.Writer) error {
	if len(t.columns) == 0 {
		return nil
	}

	widths := make([]int, len(t.columns))
	headers := make([]string, len(t.columns))
	rule := make([]string, len(t.columns))
	for i, col := range t.columns {
		widths[i] = len(col.Header)
		headers[i] = col.Header
		for _, row := range t.rows {
			widths[i] = max(widths[i], len(row[i]))
		}
	}
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}

	if err := t.line(w, widths, headers, func(s string) string { return colorBold.Sprint(s) }); err != nil {
		return err
	}
	if err := t.line(w, widths, rule, func(s string) string { return s }); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := t.line(w, widths, row, nil); err != nil {
			return err
		}
	}
	return nil
}

// line writes one padded line. Padding is computed from the raw value so
// ANSI color codes do not disturb alignment. style, when set, overrides the
// per-column color.
func (t *Table) line(w io.Writer, widths []int, values []string, style ColorFunc) error {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		val := values[i]
		display := val
		switch {
		case style != nil:
			display = style(val)
		case col.Color != nil:
			display = col.Color(val)
		}
		pad := strings.Repeat(" ", max(widths[i]-len(val), 0))
		if col.Align == AlignRight {
			parts[i] = pad + display
		} else {
			parts[i] = display + pad
		}
	}
	if _, err := fmt.Fprintf(w, "  %s\n", strings.TrimRight(strings.Join(parts, "  "), " ")); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
