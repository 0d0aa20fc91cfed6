package handlers

import (
	"github.com/gin-gonic/gin"

	"bricostore/internal/core/apperror"
	"bricostore/internal/domain/reports"
)

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// DailyRevenue handles GET /reports/revenue?date=YYYY-MM-DD
func (h *ReportsHandler) DailyRevenue(c *gin.Context) {
	ctx := c.Request.Context()

	dateParam := c.Query("date")
	if dateParam == "" {
		h.Error(c, apperror.NewValidation("date is required").WithDetail("query", "date"))
		return
	}

	day, err := reports.ParseDay(dateParam)
	if err != nil {
		h.Error(c, err)
		return
	}

	rev, err := h.service.DailyRevenue(ctx, day)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rev)
}
