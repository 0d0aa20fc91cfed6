package article

import (
	"context"
	"fmt"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/tx"
	"bricostore/internal/domain/audit"
	"bricostore/pkg/logger"
)

// Service provides business operations for the article stock ledger.
type Service struct {
	repo      Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new article service.
func NewService(repo Repository, txManager tx.Manager, auditor audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		auditor:   auditor,
	}
}

// GetArticle returns the article for a reference, or NotFound.
func (s *Service) GetArticle(ctx context.Context, reference string) (*Article, error) {
	return s.repo.GetByReference(ctx, reference)
}

// FindByFamily returns references of in-stock articles of a family.
// An unknown family yields an empty slice, not an error.
func (s *Service) FindByFamily(ctx context.Context, family string) ([]string, error) {
	refs, err := s.repo.ListInStockByFamily(ctx, family)
	if err != nil {
		return nil, fmt.Errorf("list by family: %w", err)
	}
	if refs == nil {
		refs = []string{}
	}
	return refs, nil
}

// ReserveStock locks the article row, checks availability and decrements
// stock. Must be called within a transaction; the row lock is held until
// commit, which serializes concurrent purchases of the same article.
// Returns the locked article so callers can freeze its current price.
func (s *Service) ReserveStock(ctx context.Context, reference string, quantity int) (*Article, error) {
	if quantity <= 0 {
		return nil, apperror.NewInvalidQuantity(quantity)
	}

	art, err := s.repo.GetForUpdate(ctx, reference)
	if err != nil {
		return nil, err
	}

	if art.Stock < quantity {
		return nil, apperror.NewInsufficientStock(reference, quantity, art.Stock)
	}

	if err := s.repo.AddStock(ctx, reference, -quantity); err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	art.Stock -= quantity

	return art, nil
}

// Restock adds quantity to an article's stock.
func (s *Service) Restock(ctx context.Context, reference string, quantity int) (*Article, error) {
	if quantity <= 0 {
		return nil, apperror.NewInvalidQuantity(quantity)
	}

	var art *Article
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		art, err = s.repo.GetForUpdate(ctx, reference)
		if err != nil {
			return err
		}

		if err := s.repo.AddStock(ctx, reference, quantity); err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}
		art.Stock += quantity

		return s.auditor.Record(ctx, audit.EntityArticle, reference, audit.ActionRestock, map[string]any{
			"quantity": quantity,
			"stock":    art.Stock,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock added",
		"reference", reference,
		"quantity", quantity,
		"stock", art.Stock,
	)

	return art, nil
}
