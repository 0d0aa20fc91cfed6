// Package report_repo provides PostgreSQL read models for reporting.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"bricostore/internal/core/types"
	"bricostore/internal/domain/reports"
	"bricostore/internal/infrastructure/storage/postgres"
)

// RevenueRepo implements reports.Repository.
type RevenueRepo struct {
	txManager *postgres.TxManager
}

var _ reports.Repository = (*RevenueRepo)(nil)

// NewRevenueRepo creates a new revenue repository.
func NewRevenueRepo(txManager *postgres.TxManager) *RevenueRepo {
	return &RevenueRepo{txManager: txManager}
}

func revenueQuery(from, to time.Time) squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("COALESCE(SUM(total), 0)", "COUNT(*)").
		From("invoices").
		Where(squirrel.Eq{"paid": true}).
		Where(squirrel.GtOrEq{"billed_at": from}).
		Where(squirrel.Lt{"billed_at": to})
}

// RevenueBetween sums totals of paid invoices billed in [from, to).
// Revenue belongs to the day the invoice was opened, not the day it was
// settled.
func (r *RevenueRepo) RevenueBetween(ctx context.Context, from, to time.Time) (types.Money, int, error) {
	sql, args, err := revenueQuery(from, to).ToSql()
	if err != nil {
		return types.Zero(), 0, fmt.Errorf("build query: %w", err)
	}

	var (
		total types.Money
		count int
	)
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total, &count); err != nil {
		return types.Zero(), 0, postgres.WrapQueryError("sum revenue", err)
	}

	return total, count, nil
}
