package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/txmanager"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *model.RationCard) error {
	query := `
        INSERT INTO ration_cards (id, member_id, year, allowance, consumed, renewal_date)
        VALUES (:id, :member_id, :year, :allowance, :consumed, :renewal_date)
    `
	_, err := txmanager.Executor(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.RationCard, error) {
	return r.findOne(ctx, `SELECT * FROM ration_cards WHERE id = ?`, id)
}

func (r *SQLRepository) FindByMemberYear(ctx context.Context, memberID string, year int) (*model.RationCard, error) {
	return r.findOne(ctx, `SELECT * FROM ration_cards WHERE member_id = ? AND year = ?`, memberID, year)
}

func (r *SQLRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.RationCard, error) {
	db := txmanager.Executor(ctx, r.DB)

	var c model.RationCard
	if err := db.GetContext(ctx, &c, db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepository) FindByMember(ctx context.Context, memberID string) ([]model.RationCard, error) {
	db := txmanager.Executor(ctx, r.DB)

	cards := []model.RationCard{}
	err := db.SelectContext(ctx, &cards, db.Rebind(`SELECT * FROM ration_cards WHERE member_id = ? ORDER BY year DESC`), memberID)
	return cards, err
}

func (r *SQLRepository) UpdateConsumed(ctx context.Context, cardID string, prev, next model.Quantities) (bool, error) {
	db := txmanager.Executor(ctx, r.DB)

	query := db.Rebind(`UPDATE ration_cards SET consumed = ? WHERE id = ? AND consumed = ?`)
	res, err := db.ExecContext(ctx, query, next, cardID, prev)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
