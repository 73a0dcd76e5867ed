package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses a delimited file whose first record is the header. Every
// cell is read as a String; empty cells become Null.
func ReadCSV(r io.Reader, sep rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: empty input")
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	seen := map[string]struct{}{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := seen[h]; dup {
			return nil, fmt.Errorf("csv: duplicate header %q", h)
		}
		seen[h] = struct{}{}
		header[i] = h
	}

	t := New(header...)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) > len(header) {
			return nil, fmt.Errorf("csv line %d: %w: got %d want %d", line, ErrRowWidth, len(rec), len(header))
		}
		row := make([]Value, len(header))
		for k, cell := range rec {
			if cell != "" {
				row[k] = String(cell)
			}
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.cols); err != nil {
		return err
	}
	rec := make([]string, len(t.cols))
	for _, r := range t.rows {
		for k, v := range r {
			rec[k] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
