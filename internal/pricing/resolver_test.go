package pricing

import (
	"testing"

	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/shopspring/decimal"
)

func beans() *model.Item {
	return &model.Item{
		ID:             "beans",
		Name:           "Beans",
		Type:           model.ItemTypeProduce,
		WholesalePrice: decimal.RequireFromString("2.00"),
		MarketPrice:    decimal.RequireFromString("3.00"),
	}
}

func TestResolve(t *testing.T) {
	card := &model.RationCard{
		Allowance: model.Quantities{"beans": 100, "soap": 10},
		Consumed:  model.Quantities{"beans": 80},
	}
	soap := &model.Item{
		ID:             "soap",
		Type:           model.ItemTypeConsumable,
		WholesalePrice: decimal.RequireFromString("1.00"),
		MarketPrice:    decimal.RequireFromString("1.50"),
	}

	tests := []struct {
		name      string
		item      *model.Item
		quantity  int64
		card      *model.RationCard
		useCredit bool
		wantMode  Mode
		wantUnit  string
		wantTotal string
		wantCons  bool
	}{
		{"within ration", beans(), 15, card, false, ModeRation, "2", "30", true},
		{"exactly remaining", beans(), 20, card, false, ModeRation, "2", "40", true},
		{"over remaining", beans(), 25, card, false, ModeMarket, "3", "75", false},
		{"credit ignores ration", beans(), 5, card, true, ModeCredit, "3", "15", false},
		{"no card", beans(), 1, nil, false, ModeMarket, "3", "3", false},
		{"consumable with allowance", soap, 2, card, false, ModeRation, "1", "2", true},
		{"item not on card", &model.Item{ID: "maize", MarketPrice: decimal.RequireFromString("2.50")}, 1, card, false, ModeMarket, "2.5", "2.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Resolve(tt.item, tt.quantity, tt.card, tt.useCredit)
			if q.Mode != tt.wantMode {
				t.Errorf("Mode: got %s, want %s", q.Mode, tt.wantMode)
			}
			if !q.UnitPrice.Equal(decimal.RequireFromString(tt.wantUnit)) {
				t.Errorf("UnitPrice: got %s, want %s", q.UnitPrice, tt.wantUnit)
			}
			if !q.TotalPrice.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("TotalPrice: got %s, want %s", q.TotalPrice, tt.wantTotal)
			}
			if q.RecordConsumption != tt.wantCons {
				t.Errorf("RecordConsumption: got %v, want %v", q.RecordConsumption, tt.wantCons)
			}
		})
	}
}

func TestResolveDoesNotMutateCard(t *testing.T) {
	card := &model.RationCard{
		Allowance: model.Quantities{"beans": 100},
		Consumed:  model.Quantities{"beans": 80},
	}
	Resolve(beans(), 15, card, false)
	if card.Consumed.Get("beans") != 80 {
		t.Errorf("consumed changed to %d", card.Consumed.Get("beans"))
	}
}
