// Package pricing decides the unit price of a purchase. It is pure: it reads
// the item, the member's card and the requested quantity and never writes.
package pricing

import (
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeCredit Mode = "CREDIT"
	ModeRation Mode = "RATION"
	ModeMarket Mode = "MARKET"
)

type Quote struct {
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Mode       Mode
	// RecordConsumption is true only for ration-priced purchases; the engine
	// adds the quantity to the card's consumed counter.
	RecordConsumption bool
}

// Resolve applies the first matching rule:
//
//  1. credit purchases pay market price and leave the card alone
//  2. a quantity within the card's remaining allowance pays wholesale
//  3. everything else pays market, with no blended rate
//
// A nil card means the member has no card for the year.
func Resolve(item *model.Item, quantity int64, card *model.RationCard, useCredit bool) Quote {
	q := Quote{
		UnitPrice: item.MarketPrice,
		Mode:      ModeMarket,
	}

	switch {
	case useCredit:
		q.Mode = ModeCredit
	case card != nil && quantity <= card.Remaining(item.ID):
		q.UnitPrice = item.WholesalePrice
		q.Mode = ModeRation
		q.RecordConsumption = true
	}

	q.TotalPrice = q.UnitPrice.Mul(decimal.NewFromInt(quantity))
	return q
}
