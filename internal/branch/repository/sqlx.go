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

func (r *SQLRepository) Create(ctx context.Context, b *model.Branch) error {
	query := `INSERT INTO branches (id, name, location) VALUES (:id, :name, :location)`
	_, err := txmanager.Executor(ctx, r.DB).NamedExecContext(ctx, query, b)
	return err
}

func (r *SQLRepository) FindByName(ctx context.Context, name string) (*model.Branch, error) {
	db := txmanager.Executor(ctx, r.DB)

	var b model.Branch
	if err := db.GetContext(ctx, &b, db.Rebind(`SELECT * FROM branches WHERE name = ?`), name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.Branch, error) {
	branches := []model.Branch{}
	err := txmanager.Executor(ctx, r.DB).SelectContext(ctx, &branches, `SELECT * FROM branches ORDER BY name`)
	return branches, err
}
