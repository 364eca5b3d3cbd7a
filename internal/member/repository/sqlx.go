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

func (r *SQLRepository) Create(ctx context.Context, m *model.Member) error {
	query := `
        INSERT INTO members (id, name, email, household_size, created_at)
        VALUES (:id, :name, :email, :household_size, :created_at)
    `
	_, err := txmanager.Executor(ctx, r.DB).NamedExecContext(ctx, query, m)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	db := txmanager.Executor(ctx, r.DB)

	var m model.Member
	err := db.GetContext(ctx, &m, db.Rebind(`SELECT * FROM members WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.Member, error) {
	members := []model.Member{}
	err := txmanager.Executor(ctx, r.DB).SelectContext(ctx, &members, `SELECT * FROM members ORDER BY name`)
	return members, err
}
