// Package catalog_repo provides the PostgreSQL implementation of the
// article repository.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"bricostore/internal/core/apperror"
	"bricostore/internal/domain/catalog/article"
	"bricostore/internal/infrastructure/storage/postgres"
)

const articleTable = "articles"

var articleColumns = []string{"reference", "family", "unit_price", "stock"}

// ArticleRepo implements article.Repository.
type ArticleRepo struct {
	txManager *postgres.TxManager
}

var _ article.Repository = (*ArticleRepo)(nil)

// NewArticleRepo creates a new article repository.
func NewArticleRepo(txManager *postgres.TxManager) *ArticleRepo {
	return &ArticleRepo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func baseArticleSelect() squirrel.SelectBuilder {
	return builder().
		Select(articleColumns...).
		From(articleTable)
}

func getArticleQuery(reference string, forUpdate bool) squirrel.SelectBuilder {
	q := baseArticleSelect().
		Where(squirrel.Eq{"reference": reference})
	if forUpdate {
		return q.Suffix("FOR UPDATE")
	}
	return q.Limit(1)
}

func listInStockQuery(family string) squirrel.SelectBuilder {
	return builder().
		Select("reference").
		From(articleTable).
		Where(squirrel.Eq{"family": family}).
		Where(squirrel.Gt{"stock": 0}).
		OrderBy("reference ASC")
}

// GetByReference retrieves an article by its reference.
func (r *ArticleRepo) GetByReference(ctx context.Context, reference string) (*article.Article, error) {
	return r.get(ctx, getArticleQuery(reference, false), reference)
}

// GetForUpdate retrieves an article with a row lock. The lock is held
// until the surrounding transaction commits.
func (r *ArticleRepo) GetForUpdate(ctx context.Context, reference string) (*article.Article, error) {
	return r.get(ctx, getArticleQuery(reference, true), reference)
}

func (r *ArticleRepo) get(ctx context.Context, q squirrel.SelectBuilder, reference string) (*article.Article, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a article.Article
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("article", reference)
		}
		return nil, postgres.WrapQueryError("get article", err)
	}

	return &a, nil
}

// ListInStockByFamily returns references of a family with stock > 0.
func (r *ArticleRepo) ListInStockByFamily(ctx context.Context, family string) ([]string, error) {
	sql, args, err := listInStockQuery(family).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var refs []string
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &refs, sql, args...); err != nil {
		return nil, postgres.WrapQueryError("list in stock", err)
	}

	return refs, nil
}

// AddStock adjusts stock by delta. The CHECK constraint rejects a
// decrement past zero even if a caller skipped the row lock.
func (r *ArticleRepo) AddStock(ctx context.Context, reference string, delta int) error {
	q := builder().
		Update(articleTable).
		Set("stock", squirrel.Expr("stock + ?", delta)).
		Where(squirrel.Eq{"reference": reference})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return apperror.NewConflict("stock cannot go negative").
				WithDetail("reference", reference).
				WithCause(err)
		}
		return postgres.WrapQueryError("update stock", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("article", reference)
	}

	return nil
}

// Create inserts a new article.
func (r *ArticleRepo) Create(ctx context.Context, a *article.Article) error {
	q := builder().
		Insert(articleTable).
		Columns(articleColumns...).
		Values(a.Reference, a.Family, a.UnitPrice, a.Stock)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("article reference already exists").
				WithDetail("reference", a.Reference)
		}
		return postgres.WrapQueryError("insert article", err)
	}

	return nil
}
