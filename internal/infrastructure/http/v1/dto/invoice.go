package dto

import (
	"time"

	"bricostore/internal/core/types"
	"bricostore/internal/domain/billing/invoice"
)

// LineResponse contains invoice line fields.
type LineResponse struct {
	LineNo    int         `json:"lineNo"`
	Reference string      `json:"reference"`
	Quantity  int         `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
	Subtotal  types.Money `json:"subtotal"`
}

// InvoiceResponse contains invoice fields.
type InvoiceResponse struct {
	Number        string         `json:"number"`
	CustomerID    string         `json:"customerId"`
	Total         types.Money    `json:"total"`
	Paid          bool           `json:"paid"`
	PaymentMethod *string        `json:"paymentMethod,omitempty"`
	BilledAt      time.Time      `json:"billedAt"`
	PaidAt        *time.Time     `json:"paidAt,omitempty"`
	Lines         []LineResponse `json:"lines,omitempty"`
}

// FromInvoice creates InvoiceResponse from an invoice.
func FromInvoice(inv *invoice.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		Number:        inv.Number,
		CustomerID:    inv.CustomerID,
		Total:         inv.Total,
		Paid:          inv.Paid,
		PaymentMethod: inv.PaymentMethod,
		BilledAt:      inv.BilledAt,
		PaidAt:        inv.PaidAt,
	}
	for i := range inv.Lines {
		l := &inv.Lines[i]
		resp.Lines = append(resp.Lines, LineResponse{
			LineNo:    l.LineNo,
			Reference: l.Reference,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}
	return resp
}

// PayRequest for settling a customer's open invoice.
type PayRequest struct {
	CustomerID    string `json:"customerId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}
