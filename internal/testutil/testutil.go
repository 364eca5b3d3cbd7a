// Package testutil builds migrated SQLite databases and fixture rows for
// package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/schema"
	"github.com/fekuna/omnipos-community-store/pkg/database/sqlite"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// NewDB returns a migrated database in the test's temp dir, closed on cleanup.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlite.NewSQLite(&sqlite.Config{Path: filepath.Join(t.TempDir(), "store.db")})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := schema.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func InsertMember(t *testing.T, db *sqlx.DB, householdSize int) *model.Member {
	t.Helper()

	m := &model.Member{
		ID:            uuid.New().String(),
		Name:          "Member " + uuid.New().String()[:8],
		Email:         "member@example.com",
		HouseholdSize: householdSize,
		CreatedAt:     time.Now().UTC(),
	}
	_, err := db.NamedExec(`INSERT INTO members (id, name, email, household_size, created_at)
		VALUES (:id, :name, :email, :household_size, :created_at)`, m)
	if err != nil {
		t.Fatalf("Failed to insert member: %v", err)
	}
	return m
}

// InsertItem creates a PRODUCE item with the given prices and stock.
func InsertItem(t *testing.T, db *sqlx.DB, name, wholesale, market string, inventory int64) *model.Item {
	t.Helper()

	it := &model.Item{
		ID:             uuid.New().String(),
		Name:           name,
		Type:           model.ItemTypeProduce,
		WholesalePrice: decimal.RequireFromString(wholesale),
		MarketPrice:    decimal.RequireFromString(market),
		Unit:           "kg",
		Inventory:      inventory,
		UpdatedAt:      time.Now().UTC(),
	}
	_, err := db.NamedExec(`INSERT INTO items (id, name, type, wholesale_price, market_price, unit, inventory, updated_at)
		VALUES (:id, :name, :type, :wholesale_price, :market_price, :unit, :inventory, :updated_at)`, it)
	if err != nil {
		t.Fatalf("Failed to insert item: %v", err)
	}
	return it
}

func InsertCard(t *testing.T, db *sqlx.DB, memberID string, year int, allowance, consumed model.Quantities) *model.RationCard {
	t.Helper()

	c := &model.RationCard{
		ID:          uuid.New().String(),
		MemberID:    memberID,
		Year:        year,
		Allowance:   allowance,
		Consumed:    consumed,
		RenewalDate: time.Now().UTC(),
	}
	_, err := db.NamedExec(`INSERT INTO ration_cards (id, member_id, year, allowance, consumed, renewal_date)
		VALUES (:id, :member_id, :year, :allowance, :consumed, :renewal_date)`, c)
	if err != nil {
		t.Fatalf("Failed to insert ration card: %v", err)
	}
	return c
}

func InsertCredit(t *testing.T, db *sqlx.DB, memberID, amount, remaining string, issued time.Time) *model.Credit {
	t.Helper()

	c := &model.Credit{
		ID:         uuid.New().String(),
		MemberID:   memberID,
		Amount:     decimal.RequireFromString(amount),
		Remaining:  decimal.RequireFromString(remaining),
		DateIssued: issued,
	}
	_, err := db.NamedExec(`INSERT INTO credits (id, member_id, amount, remaining, date_issued)
		VALUES (:id, :member_id, :amount, :remaining, :date_issued)`, c)
	if err != nil {
		t.Fatalf("Failed to insert credit: %v", err)
	}
	return c
}
