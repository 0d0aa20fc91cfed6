package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"bricostore/internal/core/apperror"
	"bricostore/internal/domain/audit"
	"bricostore/internal/infrastructure/storage/postgres"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// EntityHistoryReader is the slice of the audit service the handler needs.
type EntityHistoryReader interface {
	GetEntityHistory(ctx context.Context, entityType, entityKey string, limit int) ([]postgres.AuditEntry, error)
}

// AuditHandler exposes the audit trail of a single entity.
type AuditHandler struct {
	*BaseHandler
	history EntityHistoryReader
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, history EntityHistoryReader) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		history:     history,
	}
}

// GetHistory handles GET /audit/:entityType/:entityKey?limit=
func (h *AuditHandler) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()

	entityType := c.Param("entityType")
	if entityType != audit.EntityArticle && entityType != audit.EntityInvoice {
		h.Error(c, apperror.NewValidation("unknown entity type").
			WithDetail("entityType", entityType))
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.Error(c, apperror.NewValidation("limit must be a positive integer").
				WithDetail("query", "limit"))
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	entries, err := h.history.GetEntityHistory(ctx, entityType, c.Param("entityKey"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entries == nil {
		entries = []postgres.AuditEntry{}
	}

	h.OK(c, gin.H{
		"entityType": entityType,
		"entityKey":  c.Param("entityKey"),
		"entries":    entries,
	})
}
