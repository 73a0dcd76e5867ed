package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"awards/internal"
	"awards/internal/table"
)

// ExportTableToXLSX writes the table to the first sheet with a header row.
// Years are written as integers and indicators as numbers.
func ExportTableToXLSX(t *table.Table, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	cols := t.Columns()
	for i, h := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i := 0; i < t.Len(); i++ {
		r := i + 2
		for j, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			_ = f.SetCellValue(sheet, cell, cellValue(col, t.Get(i, col)))
		}
	}

	if len(cols) > 0 {
		_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func ExportTableToCSV(t *table.Table, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := table.WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func cellValue(col string, v table.Value) any {
	if ts, ok := v.Time(); ok && col == internal.ColYear {
		return ts.Year()
	}
	if n, ok := v.Num(); ok {
		return n
	}
	return v.String()
}
