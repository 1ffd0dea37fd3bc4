// Package export renders the receipt collection to the download formats:
// CSV, the JSON backup envelope and XLSX report workbooks.
package export

import (
	"encoding/csv"
	"fmt"
	"strings"

	"toya/internal/core"
)

// csvHeader is the fixed column order of every CSV export.
var csvHeader = []string{
	"Reference ID",
	"Date",
	"Student Name",
	"Admission Number",
	"Class",
	"Amount",
	"Payment Method",
	"Payer Name",
	"Notes",
}

// ReceiptsCSV renders the receipts as CSV: a header row followed by one row
// per receipt in the given order. Empty optional fields stay empty cells.
// An empty collection renders as the empty string, not a header-only file.
func ReceiptsCSV(receipts []core.Receipt) (string, error) {
	if len(receipts) == 0 {
		return "", nil
	}

	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range receipts {
		row := []string{
			r.ReferenceID,
			r.Date,
			r.StudentName,
			r.AdmissionNumber,
			r.ClassGrade,
			r.Amount.FormatShort(),
			r.PaymentMethod,
			r.PayerName,
			r.Notes,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row %s: %w", r.ReferenceID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return b.String(), nil
}
