package invoice

import (
	"context"
	"time"

	"bricostore/internal/core/types"
)

// Repository defines the interface for invoice persistence.
// A partial unique index on (customer_id) WHERE NOT paid enforces the
// one-open-invoice rule at the storage level; InsertOpen and MarkPaid are
// written against it.
type Repository interface {
	// GetOpenByCustomer retrieves the customer's open invoice, without
	// lines. Returns NotFound if the customer has none.
	GetOpenByCustomer(ctx context.Context, customerID string) (*Invoice, error)

	// GetOpenForUpdate retrieves the open invoice with a row lock.
	GetOpenForUpdate(ctx context.Context, customerID string) (*Invoice, error)

	// InsertOpen inserts a new open invoice. If a concurrent transaction
	// already opened one for the customer, no row is written and
	// ErrAlreadyOpen is returned; callers re-fetch with a lock.
	InsertOpen(ctx context.Context, inv *Invoice) error

	// GetLines returns the lines of an invoice in line order.
	GetLines(ctx context.Context, invoiceID int64) ([]Line, error)

	// AppendLine inserts a line, assigning the next line number for the
	// invoice. Callers must hold the invoice row lock.
	AppendLine(ctx context.Context, line *Line) error

	// AddToTotal adjusts the invoice total by amount.
	AddToTotal(ctx context.Context, invoiceID int64, amount types.Money) error

	// MarkPaid closes the customer's open invoice and returns it.
	// Returns NoOpenInvoice when no unpaid row matched, which is how the
	// loser of a concurrent double payment finds out.
	MarkPaid(ctx context.Context, customerID, paymentMethod string, paidAt time.Time) (*Invoice, error)
}
