package receipt

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Belege"

var exportHeaders = []any{"ID", "Händler", "Datum", "Betrag", "Währung", "Kategorie", "Datei"}

// ExportXLSX writes receipts to w as an XLSX workbook with one row per receipt
func ExportXLSX(receipts []*Receipt, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range receipts {
		row := []any{r.ID, "", "", "", r.Currency, r.Category, r.Filename}
		if r.VendorName != nil {
			row[1] = *r.VendorName
		}
		if r.InvoiceDate != nil {
			row[2] = r.InvoiceDate.String()
		}
		if r.Amount != nil {
			row[3] = r.Amount.InexactFloat64()
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("writing receipt %s: %w", r.ID, err)
		}
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}
	if err := f.SetColStyle(exportSheet, "D", amountStyle); err != nil {
		return fmt.Errorf("styling amount column: %w", err)
	}
	for _, col := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 38},
		{"B", "B", 32},
		{"C", "F", 14},
		{"G", "G", 48},
	} {
		if err := f.SetColWidth(exportSheet, col.from, col.to, col.width); err != nil {
			return fmt.Errorf("sizing columns %s-%s: %w", col.from, col.to, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
