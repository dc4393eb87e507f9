// Package db opens the PostgreSQL pool and applies the storefront schema.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Migrate creates the tables if they do not exist yet. Statements are
// idempotent so it runs on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL CHECK (category IN ('coffee','equipment')),
		roast       TEXT CHECK (roast IN ('light','medium','dark')),
		origin      TEXT,
		price       NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		image_url   TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id             BIGSERIAL PRIMARY KEY,
		customer_name  TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'completed' CHECK (status IN ('pending','completed')),
		total_amount   NUMERIC(12,2) NOT NULL CHECK (total_amount >= 0),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_customer_email_idx ON orders (customer_email, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id                BIGSERIAL PRIMARY KEY,
		order_id          BIGINT NOT NULL REFERENCES orders(id),
		product_id        BIGINT NOT NULL REFERENCES products(id),
		quantity          INTEGER NOT NULL CHECK (quantity > 0),
		price_at_purchase NUMERIC(10,2) NOT NULL CHECK (price_at_purchase >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id            BIGSERIAL PRIMARY KEY,
		order_id      BIGINT NOT NULL REFERENCES orders(id),
		product_id    BIGINT NOT NULL REFERENCES products(id),
		call_id       TEXT NOT NULL,
		transcript    TEXT,
		summary       TEXT,
		analysis_data JSONB,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT reviews_call_product_key UNIQUE (call_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_product_id_idx ON reviews (product_id)`,
}
