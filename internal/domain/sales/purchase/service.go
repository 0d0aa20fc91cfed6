// Package purchase coordinates a sale: reserve stock and bill the
// customer's open invoice as one atomic unit.
package purchase

import (
	"context"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/tx"
	"bricostore/internal/core/types"
	"bricostore/internal/domain/audit"
	"bricostore/internal/domain/billing/invoice"
	"bricostore/internal/domain/catalog/article"
	"bricostore/pkg/logger"
)

// StockReserver is the slice of the article service a purchase needs.
type StockReserver interface {
	ReserveStock(ctx context.Context, reference string, quantity int) (*article.Article, error)
}

// LineAppender is the slice of the invoice service a purchase needs.
type LineAppender interface {
	AppendLine(ctx context.Context, customerID, reference string, quantity int, unitPrice types.Money) (*invoice.Invoice, *invoice.Line, error)
}

// Receipt summarizes a committed purchase.
type Receipt struct {
	InvoiceNumber string      `json:"invoiceNumber"`
	CustomerID    string      `json:"customerId"`
	Reference     string      `json:"reference"`
	Quantity      int         `json:"quantity"`
	UnitPrice     types.Money `json:"unitPrice"`
	Subtotal      types.Money `json:"subtotal"`
	InvoiceTotal  types.Money `json:"invoiceTotal"`
	StockLeft     int         `json:"stockLeft"`
}

// Service runs purchases. Stock and billing move together or not at all.
type Service struct {
	stock     StockReserver
	billing   LineAppender
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new purchase service.
func NewService(stock StockReserver, billing LineAppender, txManager tx.Manager, auditor audit.Recorder) *Service {
	return &Service{
		stock:     stock,
		billing:   billing,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Buy purchases quantity units of an article for a customer.
//
// Inside one transaction the article row is locked first, then the
// customer's open invoice. Every writer takes locks in that order, so
// concurrent purchases serialize instead of deadlocking. Any failure
// rolls back both the stock decrement and the invoice line.
func (s *Service) Buy(ctx context.Context, customerID, reference string, quantity int) (*Receipt, error) {
	if customerID == "" {
		return nil, apperror.NewValidation("customer id is required").
			WithDetail("field", "customerId")
	}
	if quantity <= 0 {
		return nil, apperror.NewInvalidQuantity(quantity)
	}

	var receipt *Receipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		art, err := s.stock.ReserveStock(ctx, reference, quantity)
		if err != nil {
			return err
		}

		inv, line, err := s.billing.AppendLine(ctx, customerID, reference, quantity, art.UnitPrice)
		if err != nil {
			return err
		}

		receipt = &Receipt{
			InvoiceNumber: inv.Number,
			CustomerID:    customerID,
			Reference:     reference,
			Quantity:      quantity,
			UnitPrice:     line.UnitPrice,
			Subtotal:      line.Subtotal(),
			InvoiceTotal:  inv.Total,
			StockLeft:     art.Stock,
		}

		return s.auditor.Record(ctx, audit.EntityInvoice, inv.Number, audit.ActionPurchase, map[string]any{
			"customer_id": customerID,
			"reference":   reference,
			"quantity":    quantity,
			"unit_price":  line.UnitPrice.String(),
			"subtotal":    receipt.Subtotal.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase committed",
		"customer_id", customerID,
		"reference", reference,
		"quantity", quantity,
		"invoice", receipt.InvoiceNumber,
		"total", receipt.InvoiceTotal.String(),
	)

	return receipt, nil
}
