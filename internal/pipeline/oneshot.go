package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"awards/internal/table"
)

// WriteTable picks the output format from the file extension.
func WriteTable(t *table.Table, outputPath string) error {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".csv":
		return ExportTableToCSV(t, outputPath)
	case ".xlsx":
		return ExportTableToXLSX(t, outputPath)
	default:
		return fmt.Errorf("unsupported output type: %s", outputPath)
	}
}
