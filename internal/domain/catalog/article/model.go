// Package article provides the article catalog: the per-reference stock
// ledger of the store.
package article

import (
	"context"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/types"
)

// Article represents a purchasable stock item.
// The reference is the natural key; the unit price is the current shelf
// price, frozen onto invoice lines at purchase time.
type Article struct {
	Reference string      `db:"reference" json:"reference"`
	Family    string      `db:"family" json:"family"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Stock     int         `db:"stock" json:"stock"`
}

// Validate checks invariants before persisting.
func (a *Article) Validate(ctx context.Context) error {
	if a.Reference == "" {
		return apperror.NewValidation("reference is required").
			WithDetail("field", "reference")
	}

	if a.Family == "" {
		return apperror.NewValidation("family is required").
			WithDetail("field", "family")
	}

	if a.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	if a.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}

	return nil
}
