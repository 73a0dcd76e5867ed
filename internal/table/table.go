// Package table holds a small ordered, named-column table used by the
// award merge pipeline. Every transform returns a new table; the receiver
// is never modified except through Set and AppendRow.
package table

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrRowWidth      = errors.New("row width does not match columns")
	ErrColumnClash   = errors.New("column present on both sides of join")
)

type Table struct {
	cols  []string
	index map[string]int
	rows  [][]Value
}

// Row is a read-only view of one table row.
type Row struct {
	t *Table
	i int
}

func (r Row) Get(col string) Value { return r.t.Get(r.i, col) }

// New creates an empty table. Duplicate column names panic.
func New(cols ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.index[c]; dup {
			panic(fmt.Sprintf("table: duplicate column %q", c))
		}
		t.index[c] = i
	}
	return t
}

func (t *Table) Columns() []string { return append([]string(nil), t.cols...) }

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *Table) AppendRow(values ...Value) error {
	if len(values) != len(t.cols) {
		return fmt.Errorf("%w: got %d want %d", ErrRowWidth, len(values), len(t.cols))
	}
	t.rows = append(t.rows, append([]Value(nil), values...))
	return nil
}

// Get returns Null when col is absent.
func (t *Table) Get(i int, col string) Value {
	j, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.rows[i][j]
}

func (t *Table) Set(i int, col string, v Value) error {
	j, ok := t.index[col]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	t.rows[i][j] = v
	return nil
}

func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

func (t *Table) Clone() *Table {
	out := New(t.cols...)
	out.rows = make([][]Value, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = append([]Value(nil), r...)
	}
	return out
}

// Drop removes the named columns. Absent names are ignored.
func (t *Table) Drop(cols ...string) *Table {
	drop := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		drop[c] = struct{}{}
	}
	keep := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		if _, ok := drop[c]; !ok {
			keep = append(keep, c)
		}
	}
	out, _ := t.Select(keep...)
	return out
}

func (t *Table) Select(cols ...string) (*Table, error) {
	pos := make([]int, len(cols))
	for k, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
		pos[k] = j
	}
	out := New(cols...)
	out.rows = make([][]Value, len(t.rows))
	for i, r := range t.rows {
		row := make([]Value, len(pos))
		for k, j := range pos {
			row[k] = r[j]
		}
		out.rows[i] = row
	}
	return out, nil
}

// WithColumn sets col to fn(row) for every row, appending the column when
// it does not exist yet.
func (t *Table) WithColumn(col string, fn func(r Row) Value) *Table {
	out := t.Clone()
	j, ok := out.index[col]
	if !ok {
		j = len(out.cols)
		out.cols = append(out.cols, col)
		out.index[col] = j
		for i := range out.rows {
			out.rows[i] = append(out.rows[i], Null())
		}
	}
	for i := range out.rows {
		out.rows[i][j] = fn(Row{t: t, i: i})
	}
	return out
}

// Move places col at position idx, shifting the others right.
func (t *Table) Move(col string, idx int) (*Table, error) {
	if !t.Has(col) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	cols := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		if c != col {
			cols = append(cols, c)
		}
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(cols) {
		idx = len(cols)
	}
	cols = append(cols[:idx], append([]string{col}, cols[idx:]...)...)
	return t.Select(cols...)
}

func (t *Table) FillNull(v Value) *Table {
	out := t.Clone()
	for _, r := range out.rows {
		for j := range r {
			if r[j].IsNull() {
				r[j] = v
			}
		}
	}
	return out
}

// Concat stacks tables vertically. The result holds the union of columns in
// first-seen order; cells missing from a source table are Null.
func Concat(tables ...*Table) *Table {
	var cols []string
	seen := map[string]struct{}{}
	for _, t := range tables {
		for _, c := range t.cols {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				cols = append(cols, c)
			}
		}
	}
	out := New(cols...)
	for _, t := range tables {
		for i := range t.rows {
			row := make([]Value, len(cols))
			for k, c := range cols {
				row[k] = t.Get(i, c)
			}
			out.rows = append(out.rows, row)
		}
	}
	return out
}
