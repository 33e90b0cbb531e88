package extraction

import (
	"context"
	"log/slog"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ParsedInvoice holds the fields extracted from one receipt text.
// Every field except Currency is optional.
type ParsedInvoice struct {
	VendorName  *string          `json:"vendor_name"`
	InvoiceDate *civil.Date      `json:"invoice_date"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    string           `json:"currency"`
}

const tracedCandidates = 3

// Parse extracts vendor, date and amount from text. It never fails; fields
// that cannot be found are left nil.
func (e *Extractor) Parse(text string) ParsedInvoice {
	invoice := ParsedInvoice{Currency: e.locale.Currency}
	if strings.TrimSpace(text) == "" {
		return invoice
	}

	if amount, ok := e.ExtractAmount(text); ok {
		invoice.Amount = &amount
	}
	if date, ok := e.ExtractDate(text); ok {
		invoice.InvoiceDate = &date
	}
	if vendor, ok := e.ExtractVendorName(text); ok {
		invoice.VendorName = &vendor
	}

	e.trace(text, invoice)
	return invoice
}

// trace logs the top amount candidates at debug level
func (e *Extractor) trace(text string, invoice ParsedInvoice) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	candidates := e.AmountCandidates(text)
	for i, c := range candidates[:min(len(candidates), tracedCandidates)] {
		slog.Debug("Amount candidate",
			"rank", i+1,
			"value", c.Value.String(),
			"score", c.Score,
			"family", c.Family,
			"position", c.Position,
		)
	}
	slog.Debug("Parsed invoice",
		"vendor", deref(invoice.VendorName),
		"date", invoice.InvoiceDate,
		"amount", invoice.Amount,
		"candidates", len(candidates),
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
