package postgres

import (
	"context"

	"bricostore/internal/domain/audit"
)

// AuditRecorder adapts AuditService to the domain audit.Recorder
// interface.
type AuditRecorder struct {
	service *AuditService
}

var _ audit.Recorder = (*AuditRecorder)(nil)

// NewAuditRecorder creates a recorder backed by the audit service.
func NewAuditRecorder(service *AuditService) *AuditRecorder {
	return &AuditRecorder{service: service}
}

// Record writes an audit entry within the caller's transaction.
func (r *AuditRecorder) Record(ctx context.Context, entityType, entityKey string, action audit.Action, changes map[string]any) error {
	return r.service.LogChange(ctx, entityType, entityKey, AuditAction(action), changes)
}
