package repository

import (
	"context"

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

func (r *SQLRepository) CreatePurchase(ctx context.Context, p *model.Purchase) error {
	query := `
        INSERT INTO purchases (id, member_id, branch_id, item_id, quantity, unit_price, price_paid, on_credit, created_at)
        VALUES (:id, :member_id, :branch_id, :item_id, :quantity, :unit_price, :price_paid, :on_credit, :created_at)
    `
	_, err := txmanager.Executor(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *SQLRepository) CreateSale(ctx context.Context, s *model.Sale) error {
	query := `
        INSERT INTO sales (id, member_id, branch_id, item_id, quantity, created_at)
        VALUES (:id, :member_id, :branch_id, :item_id, :quantity, :created_at)
    `
	_, err := txmanager.Executor(ctx, r.DB).NamedExecContext(ctx, query, s)
	return err
}

func (r *SQLRepository) FindPurchasesByMember(ctx context.Context, memberID string) ([]model.Purchase, error) {
	db := txmanager.Executor(ctx, r.DB)

	purchases := []model.Purchase{}
	err := db.SelectContext(ctx, &purchases, db.Rebind(`SELECT * FROM purchases WHERE member_id = ? ORDER BY created_at, id`), memberID)
	return purchases, err
}

func (r *SQLRepository) FindSalesByMember(ctx context.Context, memberID string) ([]model.Sale, error) {
	db := txmanager.Executor(ctx, r.DB)

	sales := []model.Sale{}
	err := db.SelectContext(ctx, &sales, db.Rebind(`SELECT * FROM sales WHERE member_id = ? ORDER BY created_at, id`), memberID)
	return sales, err
}
