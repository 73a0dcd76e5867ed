package table

import (
	"errors"
	"fmt"
	"strings"
)

// JoinStats describes how keys lined up during a join.
type JoinStats struct {
	Matched       int // left rows with at least one right match
	LeftOnly      int
	RightOnly     int
	DuplicateKeys int // distinct right keys held by more than one row

	// LeftOnlyRows holds the left row indices that found no match.
	LeftOnlyRows []int
}

type keyIndex struct {
	order []string
	rows  map[string][]int
}

func buildIndex(t *Table, on []string) keyIndex {
	idx := keyIndex{rows: map[string][]int{}}
	for i := range t.rows {
		k := t.rowKey(i, on)
		if _, ok := idx.rows[k]; !ok {
			idx.order = append(idx.order, k)
		}
		idx.rows[k] = append(idx.rows[k], i)
	}
	return idx
}

// rowKey joins the key cells of row i. Null keys compare equal to each other.
func (t *Table) rowKey(i int, on []string) string {
	parts := make([]string, len(on))
	for k, c := range on {
		parts[k] = t.Get(i, c).key()
	}
	return strings.Join(parts, "\x1f")
}

// SharedColumns returns the columns of l, in order, that r also has.
func SharedColumns(l, r *Table) []string {
	var out []string
	for _, c := range l.cols {
		if r.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// OuterJoin keeps every row of both sides. Left rows come first in their
// original order, each followed by its matches in right order; right rows
// without a match are appended afterwards in right order.
func OuterJoin(l, r *Table, on []string) (*Table, JoinStats, error) {
	return join(l, r, on, true)
}

// LeftJoin keeps every left row. A left row matching n right rows yields n
// output rows; unmatched left rows carry Null in the right-only columns.
func LeftJoin(l, r *Table, on []string) (*Table, JoinStats, error) {
	return join(l, r, on, false)
}

func join(l, r *Table, on []string, outer bool) (*Table, JoinStats, error) {
	var stats JoinStats
	if len(on) == 0 {
		return nil, stats, errors.New("join: no key columns")
	}
	keys := make(map[string]struct{}, len(on))
	for _, c := range on {
		if !l.Has(c) || !r.Has(c) {
			return nil, stats, fmt.Errorf("join key %s: %w", c, ErrMissingColumn)
		}
		keys[c] = struct{}{}
	}

	var extra []string
	for _, c := range r.cols {
		if _, isKey := keys[c]; isKey {
			continue
		}
		if l.Has(c) {
			return nil, stats, fmt.Errorf("%w: %s", ErrColumnClash, c)
		}
		extra = append(extra, c)
	}

	out := New(append(l.Columns(), extra...)...)
	idx := buildIndex(r, on)
	for _, k := range idx.order {
		if len(idx.rows[k]) > 1 {
			stats.DuplicateKeys++
		}
	}

	used := make([]bool, r.Len())
	for i, lrow := range l.rows {
		matches := idx.rows[l.rowKey(i, on)]
		if len(matches) == 0 {
			stats.LeftOnly++
			stats.LeftOnlyRows = append(stats.LeftOnlyRows, i)
			row := append(append([]Value(nil), lrow...), make([]Value, len(extra))...)
			out.rows = append(out.rows, row)
			continue
		}
		stats.Matched++
		for _, j := range matches {
			used[j] = true
			row := append([]Value(nil), lrow...)
			for _, c := range extra {
				row = append(row, r.Get(j, c))
			}
			out.rows = append(out.rows, row)
		}
	}

	for j := range r.rows {
		if used[j] {
			continue
		}
		stats.RightOnly++
		if !outer {
			continue
		}
		row := make([]Value, len(out.cols))
		for k, c := range out.cols {
			row[k] = r.Get(j, c)
		}
		out.rows = append(out.rows, row)
	}

	return out, stats, nil
}
