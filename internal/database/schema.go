package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS midia (
		id         BIGSERIAL PRIMARY KEY,
		alt        TEXT NOT NULL,
		filename   TEXT NOT NULL,
		mime_type  TEXT NOT NULL,
		filesize   BIGINT NOT NULL,
		data       BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS motos_seminovas (
		id              TEXT PRIMARY KEY,
		ativo           BOOLEAN NOT NULL DEFAULT true,
		placa           TEXT NOT NULL,
		marca           TEXT NOT NULL,
		nome            TEXT NOT NULL,
		ano_fabricacao  INTEGER NOT NULL,
		ano_modelo      INTEGER NOT NULL,
		quilometragem   TEXT NOT NULL,
		combustivel     TEXT NOT NULL,
		cor             TEXT NOT NULL,
		categoria       TEXT NOT NULL,
		preco           NUMERIC(12,2) NOT NULL,
		local           TEXT NOT NULL,
		imagem          BIGINT REFERENCES midia(id),
		galeria         JSONB NOT NULL DEFAULT '[]',
		caracteristicas JSONB NOT NULL DEFAULT '[]',
		adicionais      JSONB NOT NULL DEFAULT '[]',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS motos_novas (
		id         TEXT PRIMARY KEY,
		nome       TEXT NOT NULL,
		ativo      BOOLEAN NOT NULL DEFAULT true,
		modelos    JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS globals (
		slug       TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_event (
		id             UUID PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		event_type     TEXT NOT NULL,
		payload        JSONB NOT NULL,
		target_stream  TEXT NOT NULL,
		status         TEXT NOT NULL,
		retry_count    INTEGER NOT NULL DEFAULT 0,
		error_message  TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		processed_at   TIMESTAMPTZ,
		next_retry_at  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_event_pending
		ON outbox_event (status, next_retry_at)`,
}

// EnsureSchema creates the catalog tables when they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
