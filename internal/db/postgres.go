package db

import (
	"context"
	"database/sql"
	"fmt"

	libdb "github.com/arez-sajeel/Project-Green/libs/db"
)

// NewPostgres connects to Postgres using shared library helper.
func NewPostgres(dsn string) (*sql.DB, error) {
	return libdb.NewPostgresDB(dsn)
}

// EnsureSchema creates the tables the service needs. Statements are
// idempotent so startup can run this unconditionally.
func EnsureSchema(ctx context.Context, pool *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		property_id BIGINT,
		portfolio_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS portfolios (
		id BIGSERIAL PRIMARY KEY,
		manager_user_id BIGINT NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS tariffs (
		id BIGSERIAL PRIMARY KEY,
		provider_name TEXT NOT NULL,
		payment_type TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		standing_charge_pd DOUBLE PRECISION NOT NULL DEFAULT 0,
		carbon_score INT NOT NULL DEFAULT 0,
		rate_schedule JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS properties (
		id BIGSERIAL PRIMARY KEY,
		address TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		sq_footage INT NOT NULL DEFAULT 0,
		mpan_id TEXT NOT NULL UNIQUE,
		tariff_id BIGINT REFERENCES tariffs(id),
		portfolio_id BIGINT REFERENCES portfolios(id),
		owner_user_id BIGINT REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS devices (
		id BIGSERIAL PRIMARY KEY,
		property_id BIGINT NOT NULL REFERENCES properties(id),
		name TEXT NOT NULL,
		average_draw_kw DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_shiftable BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS usage_logs (
		id BIGSERIAL PRIMARY KEY,
		mpan_id TEXT NOT NULL,
		ts TIMESTAMPTZ NOT NULL,
		kwh_consumption DOUBLE PRECISION NOT NULL,
		kwh_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		reading_type TEXT NOT NULL DEFAULT 'A',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (mpan_id, ts)
	);
	CREATE INDEX IF NOT EXISTS idx_usage_logs_mpan_ts ON usage_logs (mpan_id, ts);

	CREATE TABLE IF NOT EXISTS scenario_runs (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		property_id BIGINT NOT NULL,
		device_id BIGINT NOT NULL,
		original_ts TIMESTAMPTZ NOT NULL,
		new_ts TIMESTAMPTZ NOT NULL,
		baseline_cost DOUBLE PRECISION NOT NULL,
		scenario_cost DOUBLE PRECISION NOT NULL,
		estimated_savings DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_scenario_runs_user ON scenario_runs (user_id, created_at DESC);
	`

	if _, err := pool.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
