package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

func init() {
	// modernc registers as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

type Config struct {
	Path string
}

// NewSQLite opens a single-connection pool: SQLite allows one writer at a
// time and a shared connection keeps ":memory:" databases coherent.
func NewSQLite(cfg *Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.Path)

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}
