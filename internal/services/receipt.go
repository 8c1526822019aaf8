package services

import (
	"bytes"
	"fmt"

	"condo-backend/internal/models"
	"condo-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// RenderReceipt builds the PDF receipt of an approved payment with the
// breakdown of the ledger entries it settled.
func RenderReceipt(report *models.PaymentReport, allocations []models.PaymentAllocation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Payment", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Owner: %s", report.OwnerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Reference: %s", report.Reference), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Paid on: %s", report.PaymentDate.In(timeutil.Local).Format(timeutil.DateLayout)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Amount: Bs. %s", report.AmountLocal.StringFixed(2)), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Rate: %s Bs./USD", report.ExchangeRate.StringFixed(2)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Credited: USD %s", report.EquivalentUSD.String()), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Applied to", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(90, 7, "Period", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Amount (USD)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Status", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var applied models.Cents
	for _, a := range allocations {
		status := "Partial"
		if a.Settled {
			status = "Settled"
		}
		pdf.CellFormat(90, 6, a.Period, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, a.Amount.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, status, "1", 1, "C", false, 0, "")
		applied += a.Amount
	}
	if len(allocations) == 0 {
		pdf.CellFormat(190, 6, "No outstanding charges at approval time", "1", 1, "C", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 7, "Total applied", "1", 0, "L", false, 0, "")
	pdf.CellFormat(100, 7, applied.String(), "1", 1, "L", false, 0, "")
	if surplus := report.EquivalentUSD - applied; surplus > 0 {
		pdf.CellFormat(90, 7, "Not applied", "1", 0, "L", false, 0, "")
		pdf.CellFormat(100, 7, surplus.String(), "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
