package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet every exported workbook carries.
const SheetName = "Mileage Report"

// Display widths per report column, in Excel character units.
var columnWidths = []float64{12, 8, 22, 22, 14, 24, 24, 13, 10, 32}

// WriteXLSX places the report rows into a single named worksheet with
// fixed column widths and writes the workbook binary to w.
func WriteXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name worksheet: %w", err)
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name %d: %w", i+1, err)
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width %s: %w", col, err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name (%d,%d): %w", c+1, r+1, err)
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
