package reports

import (
	"context"
	"time"

	"bricostore/internal/core/types"
)

// Repository defines the read side over paid invoices.
type Repository interface {
	// RevenueBetween sums totals of paid invoices billed in [from, to)
	// and counts them. No rows means zero, not an error.
	RevenueBetween(ctx context.Context, from, to time.Time) (types.Money, int, error)
}
