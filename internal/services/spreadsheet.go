package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"condo-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const receivablesSheet = "Receivables"

var ErrEmptySpreadsheet = errors.New("the spreadsheet has no data rows")

// ExportReceivables writes the receivables report as an .xlsx workbook.
func ExportReceivables(rows []models.ReceivableRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", receivablesSheet); err != nil {
		return nil, err
	}

	headers := []interface{}{"Property", "Owner", "Open charges", "Overdue", "Charged (USD)", "Paid (USD)", "Owed (USD)"}
	if err := f.SetSheetRow(receivablesSheet, "A1", &headers); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	f.SetRowStyle(receivablesSheet, 1, 1, bold)

	var total models.Cents
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			r.Identifier,
			r.OwnerName,
			r.OpenEntries,
			r.Overdue,
			r.Charged.Decimal().InexactFloat64(),
			r.Paid.Decimal().InexactFloat64(),
			r.Owed.Decimal().InexactFloat64(),
		}
		if err := f.SetSheetRow(receivablesSheet, cell, &values); err != nil {
			return nil, err
		}
		total += r.Owed
	}

	totalRow := len(rows) + 2
	f.SetCellValue(receivablesSheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(receivablesSheet, fmt.Sprintf("G%d", totalRow), total.Decimal().InexactFloat64())
	f.SetRowStyle(receivablesSheet, totalRow, totalRow, bold)
	f.SetColWidth(receivablesSheet, "A", "B", 24)
	f.SetColWidth(receivablesSheet, "C", "G", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseDirectory reads the owner directory from the first sheet. The first
// row is a header; columns are property, first name, last name, national
// id and phone. Blank rows are skipped.
func ParseDirectory(r io.Reader) ([]models.DirectoryImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySpreadsheet
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	var rows []models.DirectoryImportRow
	for i, cols := range raw {
		if i == 0 {
			continue
		}
		row := models.DirectoryImportRow{
			Line:       i + 1,
			Identifier: column(cols, 0),
			FirstName:  column(cols, 1),
			LastName:   column(cols, 2),
			NationalID: column(cols, 3),
			Phone:      column(cols, 4),
		}
		if row.Identifier == "" && row.FirstName == "" && row.NationalID == "" {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySpreadsheet
	}
	return rows, nil
}

func column(cols []string, i int) string {
	if i >= len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[i])
}
