package receipt

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Receipt is a stored document together with the fields read from it
type Receipt struct {
	ID          string           `json:"id"`
	VendorName  *string          `json:"vendor_name"`
	InvoiceDate *civil.Date      `json:"invoice_date"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    string           `json:"currency"`
	Category    string           `json:"category"`
	RawText     string           `json:"raw_text"`
	Filename    string           `json:"filename"`
	ContentType string           `json:"content_type"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
