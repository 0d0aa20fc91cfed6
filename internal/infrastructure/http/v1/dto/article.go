package dto

import (
	"bricostore/internal/core/types"
	"bricostore/internal/domain/catalog/article"
)

// ArticleResponse contains article fields.
type ArticleResponse struct {
	Reference string      `json:"reference"`
	Family    string      `json:"family"`
	UnitPrice types.Money `json:"unitPrice"`
	Stock     int         `json:"stock"`
}

// FromArticle creates ArticleResponse from an article.
func FromArticle(a *article.Article) ArticleResponse {
	return ArticleResponse{
		Reference: a.Reference,
		Family:    a.Family,
		UnitPrice: a.UnitPrice,
		Stock:     a.Stock,
	}
}

// FamilyArticlesResponse lists in-stock references of a family.
type FamilyArticlesResponse struct {
	Family     string   `json:"family"`
	References []string `json:"references"`
}

// RestockRequest for adding stock to an article. Quantity validation is
// the service's job so zero gets the quantity error code.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}
