package dto

import "github.com/shopspring/decimal"

type CreateItemInput struct {
	Name           string          `json:"name" validate:"required"`
	Type           string          `json:"type" validate:"required,oneof=PRODUCE CONSUMABLE"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	MarketPrice    decimal.Decimal `json:"marketPrice"`
	Unit           string          `json:"unit" validate:"required"`
	Inventory      int64           `json:"inventory" validate:"gte=0"`
}
