// Package export renders cleaned lead tables into the artifacts operators
// download: Excel workbooks, printable PDF call sheets, CRM import
// spreadsheets and the ZIP bundles that organize them per consultant.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/reobote/leadflow/internal/table"
)

// ExcelBytes renders a table as a single-sheet XLSX workbook. An empty
// sheet name keeps the default sheet.
func ExcelBytes(t *table.Table, sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := "Sheet1"
	if sheet != "" {
		if err := f.SetSheetName(name, sheet); err != nil {
			return nil, fmt.Errorf("renaming sheet: %w", err)
		}
		name = sheet
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i := range t.Rows {
		cells := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = t.Rows[i][c]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(name, cell, &cells); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
