package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/tx"
	"bricostore/internal/core/types"
	"bricostore/internal/domain/audit"
	"bricostore/pkg/logger"
)

// ErrAlreadyOpen is returned by Repository.InsertOpen when a concurrent
// transaction won the race to open the customer's invoice.
var ErrAlreadyOpen = errors.New("customer already has an open invoice")

// NumberGenerator produces invoice numbers.
type NumberGenerator interface {
	NextNumber(ctx context.Context) (string, error)
}

// NumberFunc adapts a function to the NumberGenerator interface.
type NumberFunc func(ctx context.Context) (string, error)

func (f NumberFunc) NextNumber(ctx context.Context) (string, error) { return f(ctx) }

// Service provides business operations on the invoice ledger.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numbers   NumberGenerator
	auditor   audit.Recorder
}

// NewService creates a new invoice service.
func NewService(repo Repository, txManager tx.Manager, numbers NumberGenerator, auditor audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numbers:   numbers,
		auditor:   auditor,
	}
}

// GetOpenInvoice returns the customer's open invoice with its lines, or
// NoOpenInvoice if the customer has none.
func (s *Service) GetOpenInvoice(ctx context.Context, customerID string) (*Invoice, error) {
	if customerID == "" {
		return nil, apperror.NewValidation("customer id is required").
			WithDetail("field", "customerId")
	}

	inv, err := s.repo.GetOpenByCustomer(ctx, customerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNoOpenInvoice(customerID)
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("load invoice lines: %w", err)
	}
	inv.Lines = lines

	return inv, nil
}

// AppendLine adds a purchase line to the customer's open invoice, opening
// one if needed, and bumps the invoice total by the line subtotal.
// Must be called within a transaction; the invoice row lock is held until
// commit. The stock row must already be locked so every caller acquires
// locks in the same order.
func (s *Service) AppendLine(ctx context.Context, customerID, reference string, quantity int, unitPrice types.Money) (*Invoice, *Line, error) {
	inv, err := s.openForUpdateOrCreate(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	line := &Line{
		InvoiceID: inv.ID,
		Reference: reference,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	if err := s.repo.AppendLine(ctx, line); err != nil {
		return nil, nil, fmt.Errorf("append line: %w", err)
	}

	subtotal := line.Subtotal()
	if err := s.repo.AddToTotal(ctx, inv.ID, subtotal); err != nil {
		return nil, nil, fmt.Errorf("update total: %w", err)
	}
	inv.Total = inv.Total.Add(subtotal)

	return inv, line, nil
}

// openForUpdateOrCreate locks the customer's open invoice, creating one if
// none exists. The partial unique index makes the create race-safe: the
// loser gets ErrAlreadyOpen and re-fetches the winner's row with a lock.
func (s *Service) openForUpdateOrCreate(ctx context.Context, customerID string) (*Invoice, error) {
	inv, err := s.repo.GetOpenForUpdate(ctx, customerID)
	if err == nil {
		return inv, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	number, err := s.numbers.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate invoice number: %w", err)
	}

	inv = &Invoice{
		Number:     number,
		CustomerID: customerID,
		Total:      types.Zero(),
		BilledAt:   time.Now(),
	}
	err = s.repo.InsertOpen(ctx, inv)
	if errors.Is(err, ErrAlreadyOpen) {
		return s.repo.GetOpenForUpdate(ctx, customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("open invoice: %w", err)
	}

	logger.Info(ctx, "invoice opened",
		"number", inv.Number,
		"customer_id", customerID,
	)

	return inv, nil
}

// Pay closes the customer's open invoice. When two payments race, exactly
// one succeeds; the other observes NoOpenInvoice after the first commits.
func (s *Service) Pay(ctx context.Context, customerID, paymentMethod string) (*Invoice, error) {
	if customerID == "" {
		return nil, apperror.NewValidation("customer id is required").
			WithDetail("field", "customerId")
	}
	if paymentMethod == "" {
		return nil, apperror.NewValidation("payment method is required").
			WithDetail("field", "paymentMethod")
	}

	var inv *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.repo.MarkPaid(ctx, customerID, paymentMethod, time.Now())
		if err != nil {
			return err
		}

		return s.auditor.Record(ctx, audit.EntityInvoice, inv.Number, audit.ActionPayment, map[string]any{
			"customer_id":    customerID,
			"total":          inv.Total.String(),
			"payment_method": paymentMethod,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice paid",
		"number", inv.Number,
		"customer_id", customerID,
		"total", inv.Total.String(),
		"payment_method", paymentMethod,
	)

	return inv, nil
}
