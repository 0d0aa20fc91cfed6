package postgres

import (
	"context"
	"fmt"

	"bricostore/pkg/logger"
)

// schemaStatements is applied in order on startup. Statements are idempotent
// so a restart against an existing database is a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		reference   VARCHAR(50) PRIMARY KEY,
		family      VARCHAR(100) NOT NULL,
		unit_price  NUMERIC(10,2) NOT NULL CHECK (unit_price >= 0),
		stock       INT NOT NULL DEFAULT 0 CHECK (stock >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_family ON articles (family)`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id           BIGSERIAL PRIMARY KEY,
		number       VARCHAR(50) NOT NULL,
		customer_id  VARCHAR(100) NOT NULL,
		total        NUMERIC(12,2) NOT NULL DEFAULT 0,
		paid         BOOLEAN NOT NULL DEFAULT FALSE,
		payment_method VARCHAR(50),
		billed_at    TIMESTAMPTZ NOT NULL,
		paid_at      TIMESTAMPTZ
	)`,
	// At most one open invoice per customer; concurrent find-or-create
	// resolves through this index.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_open_customer
		ON invoices (customer_id) WHERE NOT paid`,
	// Revenue reports scan paid invoices by billing date.
	`CREATE INDEX IF NOT EXISTS idx_invoices_billed_at ON invoices (billed_at) WHERE paid`,

	`CREATE TABLE IF NOT EXISTS invoice_lines (
		id          BIGSERIAL PRIMARY KEY,
		invoice_id  BIGINT NOT NULL REFERENCES invoices(id),
		line_no     INT NOT NULL,
		reference   VARCHAR(50) NOT NULL REFERENCES articles(reference),
		quantity    INT NOT NULL CHECK (quantity > 0),
		unit_price  NUMERIC(10,2) NOT NULL,
		UNIQUE (invoice_id, line_no)
	)`,

	`CREATE TABLE IF NOT EXISTS sys_sequences (
		key         VARCHAR(100) PRIMARY KEY,
		current_val BIGINT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS sys_audit (
		id                 UUID PRIMARY KEY,
		entity_type        VARCHAR(50) NOT NULL,
		entity_key         VARCHAR(100) NOT NULL,
		action             VARCHAR(20) NOT NULL,
		user_id            VARCHAR(100),
		changes            JSONB,
		changes_compressed BYTEA,
		compression_algo   VARCHAR(10) NOT NULL DEFAULT 'none',
		created_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sys_audit_entity ON sys_audit (entity_type, entity_key, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		roles         TEXT[] NOT NULL DEFAULT '{}',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// ApplySchema creates all tables and indexes if they do not exist yet.
func ApplySchema(ctx context.Context, pool *Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	logger.Info(ctx, "database schema verified")
	return nil
}
