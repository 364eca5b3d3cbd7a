package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase and Sale are written once and never updated.

type Purchase struct {
	ID        string          `db:"id" json:"id"`
	MemberID  string          `db:"member_id" json:"memberId"`
	BranchID  string          `db:"branch_id" json:"branchId"`
	ItemID    string          `db:"item_id" json:"itemId"`
	Quantity  int64           `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
	PricePaid decimal.Decimal `db:"price_paid" json:"pricePaid"`
	OnCredit  bool            `db:"on_credit" json:"onCredit"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

type Sale struct {
	ID        string    `db:"id" json:"id"`
	MemberID  string    `db:"member_id" json:"memberId"`
	BranchID  string    `db:"branch_id" json:"branchId"`
	ItemID    string    `db:"item_id" json:"itemId"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
