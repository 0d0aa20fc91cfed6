// Package billing_repo provides the PostgreSQL implementation of the
// invoice repository.
package billing_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/types"
	"bricostore/internal/domain/billing/invoice"
	"bricostore/internal/infrastructure/storage/postgres"
)

const (
	invoiceTable = "invoices"
	lineTable    = "invoice_lines"
)

var (
	invoiceColumns = []string{"id", "number", "customer_id", "total", "paid", "payment_method", "billed_at", "paid_at"}
	lineColumns    = []string{"id", "invoice_id", "line_no", "reference", "quantity", "unit_price"}
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	txManager *postgres.TxManager
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func openInvoiceQuery(customerID string, forUpdate bool) squirrel.SelectBuilder {
	q := builder().
		Select(invoiceColumns...).
		From(invoiceTable).
		Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Eq{"paid": false})
	if forUpdate {
		return q.Suffix("FOR UPDATE")
	}
	return q.Limit(1)
}

func markPaidQuery(customerID, paymentMethod string, paidAt time.Time) squirrel.UpdateBuilder {
	return builder().
		Update(invoiceTable).
		Set("paid", true).
		Set("payment_method", paymentMethod).
		Set("paid_at", paidAt).
		Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Eq{"paid": false}).
		Suffix("RETURNING " + strings.Join(invoiceColumns, ", "))
}

// GetOpenByCustomer retrieves the customer's open invoice.
func (r *InvoiceRepo) GetOpenByCustomer(ctx context.Context, customerID string) (*invoice.Invoice, error) {
	return r.getOpen(ctx, openInvoiceQuery(customerID, false), customerID)
}

// GetOpenForUpdate retrieves the open invoice with a row lock.
func (r *InvoiceRepo) GetOpenForUpdate(ctx context.Context, customerID string) (*invoice.Invoice, error) {
	return r.getOpen(ctx, openInvoiceQuery(customerID, true), customerID)
}

func (r *InvoiceRepo) getOpen(ctx context.Context, q squirrel.SelectBuilder, customerID string) (*invoice.Invoice, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inv invoice.Invoice
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice", customerID)
		}
		return nil, postgres.WrapQueryError("get open invoice", err)
	}

	return &inv, nil
}

// InsertOpen inserts a new open invoice. The partial unique index on
// open invoices turns a concurrent create into a silent no-op, which we
// report as ErrAlreadyOpen.
func (r *InvoiceRepo) InsertOpen(ctx context.Context, inv *invoice.Invoice) error {
	q := builder().
		Insert(invoiceTable).
		Columns("number", "customer_id", "total", "paid", "billed_at").
		Values(inv.Number, inv.CustomerID, inv.Total, false, inv.BilledAt).
		Suffix("ON CONFLICT (customer_id) WHERE NOT paid DO NOTHING RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	err = querier.QueryRow(ctx, sql, args...).Scan(&inv.ID)
	if err == pgx.ErrNoRows {
		return invoice.ErrAlreadyOpen
	}
	if err != nil {
		return postgres.WrapQueryError("insert invoice", err)
	}

	return nil
}

// GetLines returns the lines of an invoice in line order.
func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID int64) ([]invoice.Line, error) {
	q := builder().
		Select(lineColumns...).
		From(lineTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []invoice.Line
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, postgres.WrapQueryError("get lines", err)
	}

	return lines, nil
}

// AppendLine inserts a line, assigning the next line number. Safe only
// under the invoice row lock.
func (r *InvoiceRepo) AppendLine(ctx context.Context, line *invoice.Line) error {
	q := builder().
		Insert(lineTable).
		Columns("invoice_id", "line_no", "reference", "quantity", "unit_price").
		Values(
			line.InvoiceID,
			squirrel.Expr("(SELECT COALESCE(MAX(line_no), 0) + 1 FROM invoice_lines WHERE invoice_id = ?)", line.InvoiceID),
			line.Reference,
			line.Quantity,
			line.UnitPrice,
		).
		Suffix("RETURNING id, line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&line.ID, &line.LineNo); err != nil {
		return postgres.WrapQueryError("insert line", err)
	}

	return nil
}

// AddToTotal adjusts the invoice total by amount.
func (r *InvoiceRepo) AddToTotal(ctx context.Context, invoiceID int64, amount types.Money) error {
	q := builder().
		Update(invoiceTable).
		Set("total", squirrel.Expr("total + ?", amount)).
		Where(squirrel.Eq{"id": invoiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.WrapQueryError("update total", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", invoiceID)
	}

	return nil
}

// MarkPaid closes the customer's open invoice. The WHERE NOT paid guard
// makes the update race-safe: of two concurrent payments exactly one
// matches a row, the other gets NoOpenInvoice.
func (r *InvoiceRepo) MarkPaid(ctx context.Context, customerID, paymentMethod string, paidAt time.Time) (*invoice.Invoice, error) {
	sql, args, err := markPaidQuery(customerID, paymentMethod, paidAt).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var inv invoice.Invoice
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNoOpenInvoice(customerID)
		}
		return nil, postgres.WrapQueryError("mark paid", err)
	}

	return &inv, nil
}
