package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/types"
	"bricostore/internal/domain/audit"
	"bricostore/internal/domain/catalog/article"
	"bricostore/internal/infrastructure/http/v1/middleware"
)

type stubArticleRepo struct {
	art article.Article
}

func (r *stubArticleRepo) GetByReference(ctx context.Context, reference string) (*article.Article, error) {
	if reference != r.art.Reference {
		return nil, apperror.NewNotFound("article", reference)
	}
	a := r.art
	return &a, nil
}

func (r *stubArticleRepo) GetForUpdate(ctx context.Context, reference string) (*article.Article, error) {
	return r.GetByReference(ctx, reference)
}

func (r *stubArticleRepo) ListInStockByFamily(ctx context.Context, family string) ([]string, error) {
	return nil, nil
}

func (r *stubArticleRepo) AddStock(ctx context.Context, reference string, delta int) error {
	r.art.Stock += delta
	return nil
}

func (r *stubArticleRepo) Create(ctx context.Context, a *article.Article) error {
	return nil
}

func newArticleTestRouter(repo *stubArticleRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := article.NewService(repo, passthroughTx{}, audit.Nop{})

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := NewArticleHandler(NewBaseHandler(), svc)
	r.POST("/catalog/articles/:reference/restock", handler.Restock)
	return r
}

func TestRestock(t *testing.T) {
	repo := &stubArticleRepo{art: article.Article{
		Reference: "OUT001",
		Family:    "outillage",
		UnitPrice: types.MustMoney("25.90"),
		Stock:     20,
	}}
	r := newArticleTestRouter(repo)

	w := postJSON(t, r, "/catalog/articles/OUT001/restock", map[string]any{"quantity": 5})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Stock int `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 25, resp.Stock)
}

// Zero must survive binding so the service reports the quantity code.
func TestRestock_ZeroQuantity(t *testing.T) {
	repo := &stubArticleRepo{art: article.Article{Reference: "OUT001", Stock: 20}}
	r := newArticleTestRouter(repo)

	w := postJSON(t, r, "/catalog/articles/OUT001/restock", map[string]any{"quantity": 0})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeInvalidQuantity, decodeErrorCode(t, w))
	assert.Equal(t, 20, repo.art.Stock)
}
