package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemType string

const (
	ItemTypeProduce    ItemType = "PRODUCE"
	ItemTypeConsumable ItemType = "CONSUMABLE"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeProduce || t == ItemTypeConsumable
}

// Item is a catalog entry. Inventory is a whole-unit count and is only
// mutated by the transaction engine.
type Item struct {
	ID             string          `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Type           ItemType        `db:"type" json:"type"`
	WholesalePrice decimal.Decimal `db:"wholesale_price" json:"wholesalePrice"`
	MarketPrice    decimal.Decimal `db:"market_price" json:"marketPrice"`
	Unit           string          `db:"unit" json:"unit"`
	Inventory      int64           `db:"inventory" json:"inventory"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}
