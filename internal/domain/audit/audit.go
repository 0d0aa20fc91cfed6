// Package audit defines the recording contract for business mutations.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
package audit

import (
	"context"
)

// Action identifies the kind of audited mutation.
type Action string

const (
	ActionPurchase Action = "purchase"
	ActionPayment  Action = "payment"
	ActionRestock  Action = "restock"
)

// Entity types used as audit keys.
const (
	EntityArticle = "article"
	EntityInvoice = "invoice"
)

// Recorder records an audit entry for a mutated entity.
// Implementations must write within the caller's transaction when one is
// active, so aborted operations leave no trace.
type Recorder interface {
	Record(ctx context.Context, entityType, entityKey string, action Action, changes map[string]any) error
}

// Nop is a Recorder that discards everything. Used in tests.
type Nop struct{}

func (Nop) Record(context.Context, string, string, Action, map[string]any) error { return nil }
