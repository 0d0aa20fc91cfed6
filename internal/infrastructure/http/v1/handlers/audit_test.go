package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bricostore/internal/core/apperror"
	"bricostore/internal/infrastructure/http/v1/middleware"
	"bricostore/internal/infrastructure/storage/postgres"
)

type stubHistoryReader struct {
	entries   []postgres.AuditEntry
	lastType  string
	lastKey   string
	lastLimit int
}

func (r *stubHistoryReader) GetEntityHistory(ctx context.Context, entityType, entityKey string, limit int) ([]postgres.AuditEntry, error) {
	r.lastType = entityType
	r.lastKey = entityKey
	r.lastLimit = limit
	return r.entries, nil
}

func newAuditTestRouter(reader *stubHistoryReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := NewAuditHandler(NewBaseHandler(), reader)
	r.GET("/audit/:entityType/:entityKey", handler.GetHistory)
	return r
}

func getPath(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetHistory(t *testing.T) {
	reader := &stubHistoryReader{entries: []postgres.AuditEntry{
		{EntityType: "invoice", EntityKey: "INV-2026-00001", Action: postgres.AuditActionPurchase},
		{EntityType: "invoice", EntityKey: "INV-2026-00001", Action: postgres.AuditActionPayment},
	}}
	r := newAuditTestRouter(reader)

	w := getPath(t, r, "/audit/invoice/INV-2026-00001")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "invoice", reader.lastType)
	assert.Equal(t, "INV-2026-00001", reader.lastKey)
	assert.Equal(t, 50, reader.lastLimit)

	var resp struct {
		Entries []postgres.AuditEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 2)
}

func TestGetHistory_LimitClamped(t *testing.T) {
	reader := &stubHistoryReader{}
	r := newAuditTestRouter(reader)

	w := getPath(t, r, "/audit/article/VIS001?limit=9999")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 500, reader.lastLimit)
}

func TestGetHistory_UnknownEntityType(t *testing.T) {
	r := newAuditTestRouter(&stubHistoryReader{})

	w := getPath(t, r, "/audit/customer/C1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, decodeErrorCode(t, w))
}
