package article

import (
	"context"
)

// Repository defines the interface for article persistence.
// The article row is the unit of stock serialization: all stock mutations go
// through GetForUpdate + AddStock inside a transaction.
type Repository interface {
	// GetByReference retrieves an article by its reference.
	GetByReference(ctx context.Context, reference string) (*Article, error)

	// GetForUpdate retrieves an article with a row lock.
	GetForUpdate(ctx context.Context, reference string) (*Article, error)

	// ListInStockByFamily returns references of a family with stock > 0,
	// in reference order. An empty result is not an error.
	ListInStockByFamily(ctx context.Context, family string) ([]string, error)

	// AddStock adjusts available stock by delta (negative for a purchase).
	// Callers must hold the row lock; the CHECK constraint is the last line
	// of defence against going negative.
	AddStock(ctx context.Context, reference string, delta int) error

	// Create inserts a new article (used by seeding).
	Create(ctx context.Context, a *Article) error
}
