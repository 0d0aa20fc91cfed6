package invoice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/types"
	"bricostore/internal/domain/audit"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	nextID int64
	open   map[string]*Invoice
	paid   []*Invoice
	lines  map[int64][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		open:  make(map[string]*Invoice),
		lines: make(map[int64][]Line),
	}
}

func (r *fakeRepo) GetOpenByCustomer(ctx context.Context, customerID string) (*Invoice, error) {
	inv, ok := r.open[customerID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", customerID)
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeRepo) GetOpenForUpdate(ctx context.Context, customerID string) (*Invoice, error) {
	return r.GetOpenByCustomer(ctx, customerID)
}

func (r *fakeRepo) InsertOpen(ctx context.Context, inv *Invoice) error {
	if _, ok := r.open[inv.CustomerID]; ok {
		return ErrAlreadyOpen
	}
	r.nextID++
	inv.ID = r.nextID
	cp := *inv
	r.open[inv.CustomerID] = &cp
	return nil
}

func (r *fakeRepo) GetLines(ctx context.Context, invoiceID int64) ([]Line, error) {
	return r.lines[invoiceID], nil
}

func (r *fakeRepo) AppendLine(ctx context.Context, line *Line) error {
	line.LineNo = len(r.lines[line.InvoiceID]) + 1
	r.nextID++
	line.ID = r.nextID
	r.lines[line.InvoiceID] = append(r.lines[line.InvoiceID], *line)
	return nil
}

func (r *fakeRepo) AddToTotal(ctx context.Context, invoiceID int64, amount types.Money) error {
	for _, inv := range r.open {
		if inv.ID == invoiceID {
			inv.Total = inv.Total.Add(amount)
			return nil
		}
	}
	return apperror.NewNotFound("invoice", invoiceID)
}

func (r *fakeRepo) MarkPaid(ctx context.Context, customerID, paymentMethod string, paidAt time.Time) (*Invoice, error) {
	inv, ok := r.open[customerID]
	if !ok {
		return nil, apperror.NewNoOpenInvoice(customerID)
	}
	delete(r.open, customerID)
	inv.Paid = true
	inv.PaymentMethod = &paymentMethod
	inv.PaidAt = &paidAt
	r.paid = append(r.paid, inv)
	cp := *inv
	return &cp, nil
}

func newTestService(repo Repository) *Service {
	n := 0
	numbers := NumberFunc(func(ctx context.Context) (string, error) {
		n++
		return fmt.Sprintf("INV-2026-%05d", n), nil
	})
	return NewService(repo, fakeTxManager{}, numbers, audit.Nop{})
}

func TestGetOpenInvoice_NoneIsNoOpenInvoice(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.GetOpenInvoice(context.Background(), "C1")
	assert.True(t, apperror.IsNoOpenInvoice(err))
}

func TestAppendLine_OpensInvoiceOnFirstPurchase(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	inv, line, err := svc.AppendLine(ctx, "C1", "VIS001", 10, types.MustMoney("0.15"))
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", inv.Number)
	assert.Equal(t, "C1", inv.CustomerID)
	assert.False(t, inv.Paid)
	assert.Equal(t, 1, line.LineNo)
	assert.True(t, line.Subtotal().Equal(types.MustMoney("1.50")))
	assert.True(t, inv.Total.Equal(types.MustMoney("1.50")))
}

func TestAppendLine_AccumulatesOnOpenInvoice(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, _, err := svc.AppendLine(ctx, "C1", "VIS001", 10, types.MustMoney("0.15"))
	require.NoError(t, err)

	inv, line, err := svc.AppendLine(ctx, "C1", "OUT001", 5, types.MustMoney("25.90"))
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", inv.Number)
	assert.Equal(t, 2, line.LineNo)
	assert.True(t, inv.Total.Equal(types.MustMoney("131.00")), "got total %s", inv.Total)

	got, err := svc.GetOpenInvoice(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "VIS001", got.Lines[0].Reference)
	assert.Equal(t, "OUT001", got.Lines[1].Reference)
}

func TestAppendLine_RetriesAfterInsertRace(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	// Simulate a concurrent transaction winning the insert between the
	// service's lookup and its own insert.
	racing := &racingRepo{fakeRepo: repo, misses: 1}
	svcRace := NewService(racing, fakeTxManager{}, svc.numbers, audit.Nop{})

	winner := &Invoice{Number: "INV-2026-09999", CustomerID: "C1", Total: types.Zero(), BilledAt: time.Now()}
	require.NoError(t, repo.InsertOpen(ctx, winner))

	inv, _, err := svcRace.AppendLine(ctx, "C1", "VIS001", 1, types.MustMoney("0.15"))
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-09999", inv.Number)
}

// racingRepo reports NotFound for the first misses lookups even when an open
// invoice exists, then delegates.
type racingRepo struct {
	*fakeRepo
	misses int
}

func (r *racingRepo) GetOpenForUpdate(ctx context.Context, customerID string) (*Invoice, error) {
	if r.misses > 0 {
		r.misses--
		return nil, apperror.NewNotFound("invoice", customerID)
	}
	return r.fakeRepo.GetOpenForUpdate(ctx, customerID)
}

func TestPay(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, _, err := svc.AppendLine(ctx, "C1", "OUT001", 2, types.MustMoney("25.90"))
	require.NoError(t, err)

	inv, err := svc.Pay(ctx, "C1", "card")
	require.NoError(t, err)
	assert.True(t, inv.Paid)
	require.NotNil(t, inv.PaymentMethod)
	assert.Equal(t, "card", *inv.PaymentMethod)
	require.NotNil(t, inv.PaidAt)
	assert.True(t, inv.Total.Equal(types.MustMoney("51.80")))

	// Second payment finds nothing owed.
	_, err = svc.Pay(ctx, "C1", "card")
	assert.True(t, apperror.IsNoOpenInvoice(err))

	// The next purchase opens a fresh invoice at zero plus the line.
	next, _, err := svc.AppendLine(ctx, "C1", "VIS001", 10, types.MustMoney("0.15"))
	require.NoError(t, err)
	assert.NotEqual(t, inv.Number, next.Number)
	assert.True(t, next.Total.Equal(types.MustMoney("1.50")))
}

func TestPay_Validation(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Pay(context.Background(), "", "card")
	require.Error(t, err)

	_, err = svc.Pay(context.Background(), "C1", "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
