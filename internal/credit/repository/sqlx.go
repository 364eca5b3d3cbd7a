package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/txmanager"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *model.Credit) error {
	query := `
        INSERT INTO credits (id, member_id, amount, remaining, date_issued)
        VALUES (:id, :member_id, :amount, :remaining, :date_issued)
    `
	_, err := txmanager.Executor(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Credit, error) {
	return r.findOne(ctx, `SELECT * FROM credits WHERE id = ?`, id)
}

// FindUsable compares balances as decimals in Go; SQL comparison of the
// stored text would be lexical.
func (r *SQLRepository) FindUsable(ctx context.Context, memberID string, minRemaining decimal.Decimal) (*model.Credit, error) {
	lines, err := r.FindByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].Remaining.GreaterThanOrEqual(minRemaining) {
			return &lines[i], nil
		}
	}
	return nil, nil
}

func (r *SQLRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.Credit, error) {
	db := txmanager.Executor(ctx, r.DB)

	var c model.Credit
	if err := db.GetContext(ctx, &c, db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepository) FindByMember(ctx context.Context, memberID string) ([]model.Credit, error) {
	db := txmanager.Executor(ctx, r.DB)

	lines := []model.Credit{}
	err := db.SelectContext(ctx, &lines, db.Rebind(`SELECT * FROM credits WHERE member_id = ? ORDER BY date_issued, id`), memberID)
	return lines, err
}

func (r *SQLRepository) UpdateRemaining(ctx context.Context, id string, prev, next decimal.Decimal) (bool, error) {
	db := txmanager.Executor(ctx, r.DB)

	query := db.Rebind(`UPDATE credits SET remaining = ? WHERE id = ? AND remaining = ?`)
	res, err := db.ExecContext(ctx, query, next, id, prev)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
