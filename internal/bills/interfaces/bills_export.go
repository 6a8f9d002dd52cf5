package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"billed-app/internal/bills/application"
)

// ExportDocument is the content shared by every export format.
type ExportDocument struct {
	Title       string
	Owner       string
	Currency    string
	GeneratedAt time.Time
	Bills       []application.BillView
	Summary     application.Summary
}

var exportColumns = []string{"Type", "Nom", "Date", "Montant", "Statut"}

// BuildBillsPDF renders a bill list as PDF.
func BuildBillsPDF(doc ExportDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, tr(doc.Title))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	if doc.Owner != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Employé: %s", doc.Owner)))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", doc.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Total (%s): %s", doc.Currency, doc.Summary.Total.StringFixed(2))))
	pdf.Ln(8)

	widths := []float64{40, 55, 30, 30, 35}
	pdf.SetFont("Arial", "B", 10)
	for i, column := range exportColumns {
		pdf.CellFormat(widths[i], 6, column, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, bill := range doc.Bills {
		pdf.CellFormat(widths[0], 6, tr(bill.Type), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(bill.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(bill.Date), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, bill.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, tr(bill.Status), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Par statut")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	for _, total := range doc.Summary.ByStatus {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %d / %s", statusLabel(total), total.Count, total.Amount.StringFixed(2))))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildBillsXLSX renders a bill list as XLSX.
func BuildBillsXLSX(doc ExportDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	billsSheet := "bills"
	summarySheet := "summary"
	if err := f.SetSheetName("Sheet1", billsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	columns := append(append([]string(nil), exportColumns...), "Date ISO")
	for i, column := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(billsSheet, cell, column)
	}
	for i, bill := range doc.Bills {
		row := i + 2
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("A%d", row), bill.Type)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("B%d", row), bill.Name)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("C%d", row), bill.Date)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("D%d", row), bill.Amount.InexactFloat64())
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("E%d", row), bill.Status)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("F%d", row), bill.ISODate)
	}

	_ = f.SetCellValue(summarySheet, "A1", doc.Title)
	_ = f.SetCellValue(summarySheet, "A2", "Owner")
	_ = f.SetCellValue(summarySheet, "B2", doc.Owner)
	_ = f.SetCellValue(summarySheet, "A3", "Generated")
	_ = f.SetCellValue(summarySheet, "B3", doc.GeneratedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A4", "Currency")
	_ = f.SetCellValue(summarySheet, "B4", doc.Currency)
	_ = f.SetCellValue(summarySheet, "A5", "Count")
	_ = f.SetCellValue(summarySheet, "B5", doc.Summary.Count)
	_ = f.SetCellValue(summarySheet, "A6", "Total")
	_ = f.SetCellValue(summarySheet, "B6", doc.Summary.Total.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A8", "Statut")
	_ = f.SetCellValue(summarySheet, "B8", "Nombre")
	_ = f.SetCellValue(summarySheet, "C8", "Montant")
	for i, total := range doc.Summary.ByStatus {
		row := i + 9
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), statusLabel(total))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), total.Count)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), total.Amount.InexactFloat64())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func statusLabel(total application.StatusTotal) string {
	if total.Label != "" {
		return total.Label
	}
	return string(total.Status)
}
