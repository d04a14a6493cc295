package interfaces

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ticketshop/internal/reconciliation/application"
)

// BuildReportXLSX renders the payments report as a spreadsheet for the
// treasurers who prefer Excel over raw CSV.
func BuildReportXLSX(report *application.Report) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Kartenzahlungen"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Fehlertyp")
	_ = f.SetCellValue(sheet, "B1", "Verwendungstext")
	_ = f.SetCellValue(sheet, "C1", "Beschreibung")
	for i, line := range report.Lines {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.Tag)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.ReferenceCode)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.Description)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
