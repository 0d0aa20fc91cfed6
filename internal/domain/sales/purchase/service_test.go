package purchase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/types"
	"bricostore/internal/domain/audit"
	"bricostore/internal/domain/billing/invoice"
	"bricostore/internal/domain/catalog/article"
)

type fakeStock struct {
	articles map[string]*article.Article
}

func newFakeStock(articles ...*article.Article) *fakeStock {
	s := &fakeStock{articles: make(map[string]*article.Article)}
	for _, a := range articles {
		cp := *a
		s.articles[a.Reference] = &cp
	}
	return s
}

func (s *fakeStock) ReserveStock(ctx context.Context, reference string, quantity int) (*article.Article, error) {
	a, ok := s.articles[reference]
	if !ok {
		return nil, apperror.NewNotFound("article", reference)
	}
	if a.Stock < quantity {
		return nil, apperror.NewInsufficientStock(reference, quantity, a.Stock)
	}
	a.Stock -= quantity
	cp := *a
	return &cp, nil
}

func (s *fakeStock) snapshot() map[string]article.Article {
	snap := make(map[string]article.Article, len(s.articles))
	for ref, a := range s.articles {
		snap[ref] = *a
	}
	return snap
}

func (s *fakeStock) restore(snap map[string]article.Article) {
	s.articles = make(map[string]*article.Article, len(snap))
	for ref, a := range snap {
		cp := a
		s.articles[ref] = &cp
	}
}

type fakeBilling struct {
	n        int
	invoices map[string]*invoice.Invoice
	failNext error
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{invoices: make(map[string]*invoice.Invoice)}
}

func (b *fakeBilling) AppendLine(ctx context.Context, customerID, reference string, quantity int, unitPrice types.Money) (*invoice.Invoice, *invoice.Line, error) {
	if b.failNext != nil {
		err := b.failNext
		b.failNext = nil
		return nil, nil, err
	}

	inv, ok := b.invoices[customerID]
	if !ok {
		b.n++
		inv = &invoice.Invoice{
			ID:         int64(b.n),
			Number:     fmt.Sprintf("INV-2026-%05d", b.n),
			CustomerID: customerID,
			Total:      types.Zero(),
		}
		b.invoices[customerID] = inv
	}

	line := &invoice.Line{
		InvoiceID: inv.ID,
		LineNo:    len(inv.Lines) + 1,
		Reference: reference,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	inv.Lines = append(inv.Lines, *line)
	inv.Total = inv.Total.Add(line.Subtotal())

	cp := *inv
	return &cp, line, nil
}

// fakeTxManager serializes transactions with a mutex, the way row locks
// serialize them in the database, and rolls stock back on error.
type fakeTxManager struct {
	mu    sync.Mutex
	stock *fakeStock
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.stock.snapshot()
	if err := fn(ctx); err != nil {
		m.stock.restore(snap)
		return err
	}
	return nil
}

func newTestService(stock *fakeStock, billing *fakeBilling) *Service {
	return NewService(stock, billing, &fakeTxManager{stock: stock}, audit.Nop{})
}

func TestBuy(t *testing.T) {
	stock := newFakeStock(
		&article.Article{Reference: "VIS001", Family: "visserie", UnitPrice: types.MustMoney("0.15"), Stock: 1000},
		&article.Article{Reference: "OUT001", Family: "outillage", UnitPrice: types.MustMoney("25.90"), Stock: 20},
	)
	billing := newFakeBilling()
	svc := newTestService(stock, billing)
	ctx := context.Background()

	r, err := svc.Buy(ctx, "C1", "VIS001", 10)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", r.InvoiceNumber)
	assert.True(t, r.Subtotal.Equal(types.MustMoney("1.50")))
	assert.True(t, r.InvoiceTotal.Equal(types.MustMoney("1.50")))
	assert.Equal(t, 990, r.StockLeft)

	r, err = svc.Buy(ctx, "C1", "OUT001", 5)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", r.InvoiceNumber)
	assert.True(t, r.Subtotal.Equal(types.MustMoney("129.50")))
	assert.True(t, r.InvoiceTotal.Equal(types.MustMoney("131.00")))
}

func TestBuy_Validation(t *testing.T) {
	svc := newTestService(newFakeStock(), newFakeBilling())
	ctx := context.Background()

	_, err := svc.Buy(ctx, "", "VIS001", 1)
	require.Error(t, err)

	_, err = svc.Buy(ctx, "C1", "VIS001", 0)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)

	_, err = svc.Buy(ctx, "C1", "NOPE", 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestBuy_InsufficientStockLeavesNoTrace(t *testing.T) {
	stock := newFakeStock(
		&article.Article{Reference: "OUT002", Family: "outillage", UnitPrice: types.MustMoney("45.50"), Stock: 3},
	)
	billing := newFakeBilling()
	svc := newTestService(stock, billing)

	_, err := svc.Buy(context.Background(), "C1", "OUT002", 5)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, 3, stock.articles["OUT002"].Stock)
	assert.Empty(t, billing.invoices)
}

func TestBuy_BillingFailureRollsBackStock(t *testing.T) {
	stock := newFakeStock(
		&article.Article{Reference: "PEI001", Family: "peinture", UnitPrice: types.MustMoney("12.99"), Stock: 50},
	)
	billing := newFakeBilling()
	billing.failNext = errors.New("billing down")
	svc := newTestService(stock, billing)

	_, err := svc.Buy(context.Background(), "C1", "PEI001", 2)
	require.Error(t, err)

	assert.Equal(t, 50, stock.articles["PEI001"].Stock)
}

func TestBuy_ConcurrentPurchasesNeverOversell(t *testing.T) {
	const (
		initialStock = 30
		buyers       = 50
	)

	stock := newFakeStock(
		&article.Article{Reference: "OUT001", Family: "outillage", UnitPrice: types.MustMoney("25.90"), Stock: initialStock},
	)
	billing := newFakeBilling()
	svc := newTestService(stock, billing)

	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		customerID := fmt.Sprintf("C%d", i)
		go func() {
			defer wg.Done()
			_, err := svc.Buy(context.Background(), customerID, "OUT001", 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, short int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case apperror.IsInsufficientStock(err):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, initialStock, ok)
	assert.Equal(t, buyers-initialStock, short)
	assert.Equal(t, 0, stock.articles["OUT001"].Stock)
	assert.Len(t, billing.invoices, initialStock)
}
