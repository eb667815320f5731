package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"facturas/internal"
)

// ExportEntriesToXLSX writes entry rows to a workbook with the same column
// order the spreadsheet tab uses.
func ExportEntriesToXLSX(rows []internal.EntryRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"SKU", "Descripción", "Unidades", "Costo por unidad neta", "Costo total",
		"Producto con IVA", "Producto con IEPS", "Fecha", "Factura proveedor", "Proveedor",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		for j, value := range row.Columns() {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
