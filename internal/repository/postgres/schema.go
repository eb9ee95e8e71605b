// internal/repository/postgres/schema.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the full DDL, applied idempotently by InitSchema. Kept as
// plain statements so a fresh database can be stood up without a
// migration tool.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		id          BIGSERIAL PRIMARY KEY,
		store_id    TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS skus (
		id            BIGSERIAL PRIMARY KEY,
		store_id      BIGINT NOT NULL REFERENCES stores(id),
		sku_id        TEXT NOT NULL,
		sku_name      TEXT NOT NULL,
		category      TEXT NOT NULL DEFAULT '',
		current_stock INT NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (store_id, sku_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sales_transactions (
		id         BIGSERIAL PRIMARY KEY,
		store_id   BIGINT NOT NULL REFERENCES stores(id),
		sku_id     BIGINT NOT NULL REFERENCES skus(id),
		date       DATE NOT NULL,
		units_sold INT NOT NULL,
		price      DOUBLE PRECISION,
		discount   DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (store_id, sku_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_store_date
		ON sales_transactions (store_id, date)`,
	`CREATE TABLE IF NOT EXISTS forecasts (
		id               BIGSERIAL PRIMARY KEY,
		store_id         BIGINT NOT NULL REFERENCES stores(id),
		sku_id           BIGINT NOT NULL REFERENCES skus(id),
		forecast_date    DATE NOT NULL,
		predicted_units  DOUBLE PRECISION NOT NULL,
		confidence_lower DOUBLE PRECISION NOT NULL,
		confidence_upper DOUBLE PRECISION NOT NULL,
		model_used       TEXT NOT NULL,
		forecast_horizon INT NOT NULL,
		generated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_forecasts_store_sku_date
		ON forecasts (store_id, sku_id, forecast_date)`,
	`CREATE TABLE IF NOT EXISTS reorder_recommendations (
		id                  BIGSERIAL PRIMARY KEY,
		store_id            BIGINT NOT NULL REFERENCES stores(id),
		sku_id              BIGINT NOT NULL REFERENCES skus(id),
		reorder_qty         INT NOT NULL,
		reason              TEXT NOT NULL,
		urgency             TEXT NOT NULL,
		forecasted_demand   DOUBLE PRECISION NOT NULL,
		current_stock       INT NOT NULL,
		velocity_change_pct DOUBLE PRECISION NOT NULL,
		generated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_active           BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reorder_store_active
		ON reorder_recommendations (store_id, is_active)`,
	`CREATE TABLE IF NOT EXISTS festivals (
		id                BIGSERIAL PRIMARY KEY,
		name              TEXT NOT NULL,
		date              DATE NOT NULL,
		region            TEXT NOT NULL DEFAULT 'All India',
		impact_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.5,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (name, date)
	)`,
}

// InitSchema creates all tables and indexes if they do not exist.
func InitSchema(ctx context.Context, db *DB) error {
	return ApplySchema(ctx, db.DB.DB)
}

// ApplySchema runs the DDL against a plain database handle. The seed CLI
// uses this with its own pgx connection.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
