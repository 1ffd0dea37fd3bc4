package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"toya/internal/core"
	"toya/internal/stats"
)

// WriteReportXLSX renders a period report workbook: a summary sheet with
// the headline figures and daily series, and a receipts sheet listing the
// underlying rows.
func WriteReportXLSX(w io.Writer, report stats.PeriodReport, receipts []core.Receipt) error {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	f.SetCellValue(summarySheet, "A1", "Period")
	f.SetCellValue(summarySheet, "B1", report.Start+" to "+report.End)
	f.SetCellValue(summarySheet, "A2", "Class")
	if report.ClassGrade != "" {
		f.SetCellValue(summarySheet, "B2", report.ClassGrade)
	} else {
		f.SetCellValue(summarySheet, "B2", "All classes")
	}
	f.SetCellValue(summarySheet, "A3", "Total Collected")
	f.SetCellValue(summarySheet, "B3", report.TotalCollected.FormatShort())
	f.SetCellValue(summarySheet, "A4", "Transactions")
	f.SetCellValue(summarySheet, "B4", report.Transactions)

	f.SetCellValue(summarySheet, "A6", "Date")
	f.SetCellValue(summarySheet, "B6", "Amount")
	for i, p := range report.Daily {
		row := i + 7
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), p.Date)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), p.Amount.FormatShort())
	}

	receiptsSheet := "Receipts"
	if _, err := f.NewSheet(receiptsSheet); err != nil {
		return fmt.Errorf("create receipts sheet: %w", err)
	}
	for i, header := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(receiptsSheet, cell, header)
	}
	for i, r := range receipts {
		row := i + 2
		f.SetCellValue(receiptsSheet, fmt.Sprintf("A%d", row), r.ReferenceID)
		f.SetCellValue(receiptsSheet, fmt.Sprintf("B%d", row), r.Date)
		f.SetCellValue(receiptsSheet, fmt.Sprintf("C%d", row), r.StudentName)
		f.SetCellValue(receiptsSheet, fmt.Sprintf("D%d", row), r.AdmissionNumber)
		f.SetCellValue(receiptsSheet, fmt.Sprintf("E%d", row), r.ClassGrade)
		f.SetCellValue(receiptsSheet, fmt.Sprintf("F%d", row), r.Amount.FormatShort())
		f.SetCellValue(receiptsSheet, fmt.Sprintf("G%d", row), r.PaymentMethod)
		f.SetCellValue(receiptsSheet, fmt.Sprintf("H%d", row), r.PayerName)
		f.SetCellValue(receiptsSheet, fmt.Sprintf("I%d", row), r.Notes)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
