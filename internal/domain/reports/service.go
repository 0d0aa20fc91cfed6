package reports

import (
	"context"
	"fmt"
	"time"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/tx"
)

// Service answers revenue queries from committed invoice state only.
type Service struct {
	repo      Repository
	txManager tx.ReadOnlyManager
}

// NewService creates a new reports service.
func NewService(repo Repository, txManager tx.ReadOnlyManager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// DailyRevenue returns the revenue recognized on the given calendar day,
// by billing timestamp. Only paid invoices count; an invoice billed today
// and settled later still belongs to today once it is paid.
func (s *Service) DailyRevenue(ctx context.Context, day time.Time) (*DailyRevenue, error) {
	from, to := DayBounds(day)

	var rev *DailyRevenue
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		total, count, err := s.repo.RevenueBetween(ctx, from, to)
		if err != nil {
			return fmt.Errorf("revenue between %s and %s: %w",
				from.Format(DateLayout), to.Format(DateLayout), err)
		}
		rev = &DailyRevenue{
			Date:         from.Format(DateLayout),
			Total:        total,
			InvoiceCount: count,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rev, nil
}

// ParseDay parses a YYYY-MM-DD report date in server-local time, the same
// clock that stamps invoices.
func ParseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, apperror.NewValidation("date must be YYYY-MM-DD").
			WithDetail("field", "date").
			WithCause(err)
	}
	return day, nil
}
