package wiki

import (
	"fmt"
	"os"
	"path/filepath"

	"awards/internal"
	"awards/internal/table"
)

// SelectTable picks one extracted table by index. A negative index stacks
// every table that has a Year column, which suits pages split by decade.
func SelectTable(tables []*table.Table, index int) (*table.Table, error) {
	if index >= 0 {
		if index >= len(tables) {
			return nil, fmt.Errorf("table index %d out of range (%d tables)", index, len(tables))
		}
		return tables[index], nil
	}

	var withYear []*table.Table
	for _, t := range tables {
		if t.Has(internal.ColYear) {
			withYear = append(withYear, t)
		}
	}
	if len(withYear) == 0 {
		return nil, fmt.Errorf("%w: none has a %s column", ErrNoTables, internal.ColYear)
	}
	return table.Concat(withYear...), nil
}

// ConvertFile turns a saved page into a secondary CSV input file and
// returns the number of rows written.
func ConvertFile(htmlPath string, index int, outPath string) (int, error) {
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		return 0, err
	}
	return ConvertHTML(html, index, outPath)
}

func ConvertHTML(html []byte, index int, outPath string) (int, error) {
	tables, err := ExtractTables(html)
	if err != nil {
		return 0, err
	}
	t, err := SelectTable(tables, index)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	if err := table.WriteCSV(f, t); err != nil {
		_ = f.Close()
		return 0, err
	}
	return t.Len(), f.Close()
}
