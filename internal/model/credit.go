package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Credit struct {
	ID         string          `db:"id" json:"id"`
	MemberID   string          `db:"member_id" json:"memberId"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Remaining  decimal.Decimal `db:"remaining" json:"remaining"`
	DateIssued time.Time       `db:"date_issued" json:"dateIssued"`
}
