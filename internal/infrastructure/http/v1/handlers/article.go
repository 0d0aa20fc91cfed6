package handlers

import (
	"github.com/gin-gonic/gin"

	"bricostore/internal/core/apperror"
	"bricostore/internal/domain/catalog/article"
	"bricostore/internal/infrastructure/http/v1/dto"
)

// ArticleHandler handles catalog endpoints.
type ArticleHandler struct {
	*BaseHandler
	service *article.Service
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(base *BaseHandler, service *article.Service) *ArticleHandler {
	return &ArticleHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Get handles GET /catalog/articles/:reference
func (h *ArticleHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	art, err := h.service.GetArticle(ctx, c.Param("reference"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromArticle(art))
}

// ListByFamily handles GET /catalog/articles?family=...
func (h *ArticleHandler) ListByFamily(c *gin.Context) {
	ctx := c.Request.Context()

	family := c.Query("family")
	if family == "" {
		h.Error(c, apperror.NewValidation("family is required").WithDetail("query", "family"))
		return
	}

	refs, err := h.service.FindByFamily(ctx, family)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FamilyArticlesResponse{
		Family:     family,
		References: refs,
	})
}

// Restock handles POST /catalog/articles/:reference/restock
func (h *ArticleHandler) Restock(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RestockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	art, err := h.service.Restock(ctx, c.Param("reference"), req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromArticle(art))
}
