package schema_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/schema"
	"github.com/fekuna/omnipos-community-store/internal/testutil"
)

func TestMoneyType(t *testing.T) {
	tests := map[string]string{
		"pgx":      "NUMERIC(12,2)",
		"postgres": "NUMERIC(12,2)",
		"sqlite":   "TEXT",
	}
	for driver, want := range tests {
		if got := schema.MoneyType(driver); got != want {
			t.Errorf("MoneyType(%q): got %s, want %s", driver, got, want)
		}
	}
}

func TestSQLiteStoresMoneyAsText(t *testing.T) {
	db := testutil.NewDB(t)
	m := testutil.InsertMember(t, db, 1)
	c := testutil.InsertCredit(t, db, m.ID, "0.30", "0.10", time.Now().UTC())

	var kind, raw string
	row := db.QueryRowxContext(context.Background(), db.Rebind(`SELECT typeof(remaining), remaining FROM credits WHERE id = ?`), c.ID)
	if err := row.Scan(&kind, &raw); err != nil {
		t.Fatalf("Failed to read credit: %v", err)
	}
	if kind != "text" || raw != "0.1" {
		t.Errorf("remaining stored as %s %q, want text \"0.1\"", kind, raw)
	}

	// Migrating twice is harmless.
	if err := schema.Migrate(context.Background(), db); err != nil {
		t.Errorf("second Migrate failed: %v", err)
	}
}
