package postgres

import (
	"context"
	"fmt"
)

// schemaStatements crea las tablas del módulo de stock si no existen.
// El índice parcial replenishment_notifications_one_open garantiza una sola notificación OPEN por stock.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS stock_entries (
		id                TEXT PRIMARY KEY,
		seq               BIGSERIAL NOT NULL,
		product_id        TEXT NOT NULL,
		color             TEXT NOT NULL DEFAULT '',
		size              TEXT NOT NULL DEFAULT '',
		quantity          INTEGER NOT NULL CHECK (quantity >= 0),
		reorder_threshold INTEGER NOT NULL CHECK (reorder_threshold >= 0),
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS replenishment_notifications (
		id                TEXT PRIMARY KEY,
		seq               BIGSERIAL NOT NULL,
		stock_id          TEXT NOT NULL REFERENCES stock_entries(id) ON DELETE CASCADE,
		status            TEXT NOT NULL CHECK (status IN ('OPEN', 'DISMISSED')),
		quantity          INTEGER NOT NULL,
		reorder_threshold INTEGER NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL,
		dismissed_at      TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS replenishment_notifications_one_open
		ON replenishment_notifications (stock_id) WHERE status = 'OPEN'`,
	`CREATE INDEX IF NOT EXISTS replenishment_notifications_stock
		ON replenishment_notifications (stock_id, seq DESC)`,
	`CREATE INDEX IF NOT EXISTS stock_entries_below_threshold
		ON stock_entries (seq) WHERE quantity <= reorder_threshold`,
}

// EnsureSchema ejecuta las sentencias DDL (idempotentes).
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
