// Package invoice provides the billing ledger: one open invoice per
// customer, accumulating purchase lines until it is paid.
package invoice

import (
	"time"

	"bricostore/internal/core/types"
)

// Invoice is a customer's bill. At most one unpaid invoice exists per
// customer; paying it closes it, and the next purchase opens a fresh one.
type Invoice struct {
	ID            int64       `db:"id" json:"id"`
	Number        string      `db:"number" json:"number"`
	CustomerID    string      `db:"customer_id" json:"customerId"`
	Total         types.Money `db:"total" json:"total"`
	Paid          bool        `db:"paid" json:"paid"`
	PaymentMethod *string     `db:"payment_method" json:"paymentMethod,omitempty"`
	BilledAt      time.Time   `db:"billed_at" json:"billedAt"`
	PaidAt        *time.Time  `db:"paid_at" json:"paidAt,omitempty"`

	Lines []Line `db:"-" json:"lines,omitempty"`
}

// Line is a single purchase on an invoice. The unit price is frozen at
// purchase time; later catalog price changes do not touch billed lines.
type Line struct {
	ID        int64       `db:"id" json:"id"`
	InvoiceID int64       `db:"invoice_id" json:"invoiceId"`
	LineNo    int         `db:"line_no" json:"lineNo"`
	Reference string      `db:"reference" json:"reference"`
	Quantity  int         `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// Subtotal returns unit price times quantity.
func (l *Line) Subtotal() types.Money {
	return types.LineSubtotal(l.UnitPrice, l.Quantity)
}
