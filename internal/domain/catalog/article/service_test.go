package article

import (
	"context"
	"testing"

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
	articles map[string]*Article
}

func newFakeRepo(articles ...*Article) *fakeRepo {
	r := &fakeRepo{articles: make(map[string]*Article)}
	for _, a := range articles {
		cp := *a
		r.articles[a.Reference] = &cp
	}
	return r
}

func (r *fakeRepo) GetByReference(ctx context.Context, reference string) (*Article, error) {
	a, ok := r.articles[reference]
	if !ok {
		return nil, apperror.NewNotFound("article", reference)
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, reference string) (*Article, error) {
	return r.GetByReference(ctx, reference)
}

func (r *fakeRepo) ListInStockByFamily(ctx context.Context, family string) ([]string, error) {
	var refs []string
	for _, a := range r.articles {
		if a.Family == family && a.Stock > 0 {
			refs = append(refs, a.Reference)
		}
	}
	return refs, nil
}

func (r *fakeRepo) AddStock(ctx context.Context, reference string, delta int) error {
	a, ok := r.articles[reference]
	if !ok {
		return apperror.NewNotFound("article", reference)
	}
	a.Stock += delta
	return nil
}

func (r *fakeRepo) Create(ctx context.Context, a *Article) error {
	cp := *a
	r.articles[a.Reference] = &cp
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, fakeTxManager{}, audit.Nop{})
}

func TestGetArticle(t *testing.T) {
	repo := newFakeRepo(&Article{
		Reference: "VIS001",
		Family:    "visserie",
		UnitPrice: types.MustMoney("0.15"),
		Stock:     1000,
	})
	svc := newTestService(repo)

	art, err := svc.GetArticle(context.Background(), "VIS001")
	require.NoError(t, err)
	assert.Equal(t, "visserie", art.Family)
	assert.True(t, art.UnitPrice.Equal(types.MustMoney("0.15")))
	assert.Equal(t, 1000, art.Stock)

	_, err = svc.GetArticle(context.Background(), "NOPE")
	assert.True(t, apperror.IsNotFound(err))
}

func TestFindByFamily_UnknownFamilyIsEmpty(t *testing.T) {
	svc := newTestService(newFakeRepo())

	refs, err := svc.FindByFamily(context.Background(), "plomberie")
	require.NoError(t, err)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}

func TestFindByFamily_SkipsOutOfStock(t *testing.T) {
	repo := newFakeRepo(
		&Article{Reference: "OUT001", Family: "outillage", UnitPrice: types.MustMoney("25.90"), Stock: 20},
		&Article{Reference: "OUT002", Family: "outillage", UnitPrice: types.MustMoney("45.50"), Stock: 0},
	)
	svc := newTestService(repo)

	refs, err := svc.FindByFamily(context.Background(), "outillage")
	require.NoError(t, err)
	assert.Equal(t, []string{"OUT001"}, refs)
}

func TestReserveStock(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		quantity  int
		wantErr   func(error) bool
		wantStock int
	}{
		{"exact stock", 10, 10, nil, 0},
		{"partial", 10, 3, nil, 7},
		{"insufficient", 5, 6, apperror.IsInsufficientStock, 5},
		{"zero quantity", 5, 0, func(err error) bool {
			appErr, ok := apperror.AsAppError(err)
			return ok && appErr.Code == apperror.CodeInvalidQuantity
		}, 5},
		{"negative quantity", 5, -1, func(err error) bool {
			appErr, ok := apperror.AsAppError(err)
			return ok && appErr.Code == apperror.CodeInvalidQuantity
		}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo(&Article{
				Reference: "VIS001",
				Family:    "visserie",
				UnitPrice: types.MustMoney("0.15"),
				Stock:     tt.stock,
			})
			svc := newTestService(repo)

			art, err := svc.ReserveStock(context.Background(), "VIS001", tt.quantity)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStock, art.Stock)
			}

			stored, _ := repo.GetByReference(context.Background(), "VIS001")
			assert.Equal(t, tt.wantStock, stored.Stock)
		})
	}
}

func TestReserveStock_UnknownReference(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.ReserveStock(context.Background(), "NOPE", 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRestock(t *testing.T) {
	repo := newFakeRepo(&Article{
		Reference: "PEI001",
		Family:    "peinture",
		UnitPrice: types.MustMoney("12.99"),
		Stock:     50,
	})
	svc := newTestService(repo)

	art, err := svc.Restock(context.Background(), "PEI001", 25)
	require.NoError(t, err)
	assert.Equal(t, 75, art.Stock)

	_, err = svc.Restock(context.Background(), "PEI001", 0)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)

	_, err = svc.Restock(context.Background(), "NOPE", 5)
	assert.True(t, apperror.IsNotFound(err))
}

func TestArticleValidate(t *testing.T) {
	valid := Article{
		Reference: "VIS001",
		Family:    "visserie",
		UnitPrice: types.MustMoney("0.15"),
		Stock:     1000,
	}
	require.NoError(t, valid.Validate(context.Background()))

	tests := []struct {
		name   string
		mutate func(*Article)
	}{
		{"missing reference", func(a *Article) { a.Reference = "" }},
		{"missing family", func(a *Article) { a.Family = "" }},
		{"negative price", func(a *Article) { a.UnitPrice = types.MustMoney("-1") }},
		{"negative stock", func(a *Article) { a.Stock = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			err := a.Validate(context.Background())
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}
