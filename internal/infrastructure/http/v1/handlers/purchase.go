package handlers

import (
	"github.com/gin-gonic/gin"

	"bricostore/internal/domain/sales/purchase"
	"bricostore/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles sales endpoints.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Buy handles POST /sales/purchases
func (h *PurchaseHandler) Buy(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receipt, err := h.service.Buy(ctx, req.CustomerID, req.Reference, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, receipt)
}
