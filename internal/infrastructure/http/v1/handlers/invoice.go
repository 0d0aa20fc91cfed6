package handlers

import (
	"github.com/gin-gonic/gin"

	"bricostore/internal/domain/billing/invoice"
	"bricostore/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles billing endpoints.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetOpen handles GET /billing/invoices/open/:customerId
func (h *InvoiceHandler) GetOpen(c *gin.Context) {
	ctx := c.Request.Context()

	inv, err := h.service.GetOpenInvoice(ctx, c.Param("customerId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(inv))
}

// Pay handles POST /billing/invoices/pay
func (h *InvoiceHandler) Pay(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.Pay(ctx, req.CustomerID, req.PaymentMethod)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(inv))
}
