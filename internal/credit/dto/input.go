package dto

import "github.com/shopspring/decimal"

type IssueCreditInput struct {
	MemberID string          `json:"memberId" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
}
