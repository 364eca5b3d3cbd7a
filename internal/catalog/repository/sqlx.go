package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/catalog/dto"
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

func (r *SQLRepository) Create(ctx context.Context, it *model.Item) error {
	query := `
        INSERT INTO items (id, name, type, wholesale_price, market_price, unit, inventory, updated_at)
        VALUES (:id, :name, :type, :wholesale_price, :market_price, :unit, :inventory, :updated_at)
    `
	_, err := txmanager.Executor(ctx, r.DB).NamedExecContext(ctx, query, it)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	return r.findOne(ctx, `SELECT * FROM items WHERE id = ?`, id)
}

func (r *SQLRepository) FindByName(ctx context.Context, name string) (*model.Item, error) {
	return r.findOne(ctx, `SELECT * FROM items WHERE name = ?`, name)
}

func (r *SQLRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Item, error) {
	db := txmanager.Executor(ctx, r.DB)

	var it model.Item
	if err := db.GetContext(ctx, &it, db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.Item, int, error) {
	db := txmanager.Executor(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if f.SearchQuery != "" {
		// LOWER/LIKE instead of ILIKE so the query runs on SQLite too.
		conditions = append(conditions, "LOWER(name) LIKE :search")
		args["search"] = "%" + strings.ToLower(f.SearchQuery) + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM items"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM items" + whereClause + " ORDER BY name"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	items := []model.Item{}
	if err := db.SelectContext(ctx, &items, db.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *SQLRepository) AdjustInventory(ctx context.Context, id string, delta int64) (bool, error) {
	db := txmanager.Executor(ctx, r.DB)

	query := db.Rebind(`
		UPDATE items
		SET inventory = inventory + ?, updated_at = ?
		WHERE id = ? AND inventory + ? >= 0
	`)
	res, err := db.ExecContext(ctx, query, delta, time.Now().UTC(), id, delta)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
