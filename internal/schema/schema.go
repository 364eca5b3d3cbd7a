// Package schema creates the service tables. The DDL sticks to types both
// Postgres and SQLite accept.
//
// Money columns are NUMERIC on Postgres and TEXT on SQLite. SQLite gives
// NUMERIC columns REAL affinity, which would round decimal amounts through
// float64; as TEXT they round-trip exactly and all arithmetic stays in Go.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const moneyPlaceholder = "{{money}}"

var statements = []string{
	`CREATE TABLE IF NOT EXISTS members (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		email          TEXT NOT NULL DEFAULT '',
		household_size INTEGER NOT NULL CHECK (household_size >= 1),
		created_at     TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS branches (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL UNIQUE,
		location TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL UNIQUE,
		type            TEXT NOT NULL,
		wholesale_price {{money}} NOT NULL CHECK (wholesale_price > 0),
		market_price    {{money}} NOT NULL CHECK (market_price > 0),
		unit            TEXT NOT NULL,
		inventory       BIGINT NOT NULL CHECK (inventory >= 0),
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ration_cards (
		id           TEXT PRIMARY KEY,
		member_id    TEXT NOT NULL REFERENCES members(id),
		year         INTEGER NOT NULL,
		allowance    TEXT NOT NULL DEFAULT '{}',
		consumed     TEXT NOT NULL DEFAULT '{}',
		renewal_date TIMESTAMP NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_ration_cards_member_year ON ration_cards (member_id, year)`,
	`CREATE TABLE IF NOT EXISTS credits (
		id          TEXT PRIMARY KEY,
		member_id   TEXT NOT NULL REFERENCES members(id),
		amount      {{money}} NOT NULL CHECK (amount > 0),
		remaining   {{money}} NOT NULL CHECK (remaining >= 0),
		date_issued TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_credits_member ON credits (member_id, date_issued)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id         TEXT PRIMARY KEY,
		member_id  TEXT NOT NULL,
		branch_id  TEXT NOT NULL,
		item_id    TEXT NOT NULL REFERENCES items(id),
		quantity   BIGINT NOT NULL CHECK (quantity > 0),
		unit_price {{money}} NOT NULL,
		price_paid {{money}} NOT NULL,
		on_credit  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_member ON purchases (member_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id         TEXT PRIMARY KEY,
		member_id  TEXT NOT NULL REFERENCES members(id),
		branch_id  TEXT NOT NULL,
		item_id    TEXT NOT NULL REFERENCES items(id),
		quantity   BIGINT NOT NULL CHECK (quantity > 0),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_member ON sales (member_id, created_at)`,
}

// MoneyType is the column type used for decimal amounts on the given driver.
func MoneyType(driverName string) string {
	if driverName == "pgx" || driverName == "postgres" {
		return "NUMERIC(12,2)"
	}
	return "TEXT"
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	money := MoneyType(db.DriverName())
	for _, stmt := range statements {
		stmt = strings.ReplaceAll(stmt, moneyPlaceholder, money)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
