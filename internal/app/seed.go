package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	branchdto "github.com/fekuna/omnipos-community-store/internal/branch/dto"
	catalogdto "github.com/fekuna/omnipos-community-store/internal/catalog/dto"
	memberdto "github.com/fekuna/omnipos-community-store/internal/member/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var seedMembers = []memberdto.CreateMemberInput{
	{Name: "John Doe", Email: "john@example.com", HouseholdSize: 4},
	{Name: "Jane Smith", Email: "jane@example.com", HouseholdSize: 3},
}

var seedItems = []catalogdto.CreateItemInput{
	{Name: "Beans", Type: "PRODUCE", WholesalePrice: decimal.RequireFromString("2.0"), MarketPrice: decimal.RequireFromString("3.0"), Unit: "kg", Inventory: 100},
	{Name: "Maize", Type: "PRODUCE", WholesalePrice: decimal.RequireFromString("1.5"), MarketPrice: decimal.RequireFromString("2.5"), Unit: "kg", Inventory: 200},
	{Name: "Soap", Type: "CONSUMABLE", WholesalePrice: decimal.RequireFromString("1.0"), MarketPrice: decimal.RequireFromString("1.5"), Unit: "unit", Inventory: 50},
}

var seedBranches = []branchdto.CreateBranchInput{
	{Name: "Main Branch", Location: "Downtown"},
	{Name: "West Branch", Location: "West Side"},
}

// Seed creates the starter members, items and branches. Rows that already
// exist by name are left alone, so running it twice is harmless.
func (a *App) Seed(ctx context.Context) error {
	members, err := a.Members.ListMembers(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	existing := make(map[string]bool, len(members))
	for _, m := range members {
		existing[m.Name] = true
	}
	for i := range seedMembers {
		if existing[seedMembers[i].Name] {
			continue
		}
		if _, err := a.Members.CreateMember(ctx, &seedMembers[i]); err != nil {
			return fmt.Errorf("seed member %s: %w", seedMembers[i].Name, err)
		}
		a.Logger.Info("Seeded member", zap.String("name", seedMembers[i].Name))
	}

	for i := range seedItems {
		_, err := a.Items.GetItemByName(ctx, seedItems[i].Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperr.ErrItemNotFound) {
			return fmt.Errorf("look up item %s: %w", seedItems[i].Name, err)
		}
		if _, err := a.Items.CreateItem(ctx, &seedItems[i]); err != nil {
			return fmt.Errorf("seed item %s: %w", seedItems[i].Name, err)
		}
		a.Logger.Info("Seeded item", zap.String("name", seedItems[i].Name))
	}

	branches, err := a.Branches.ListBranches(ctx)
	if err != nil {
		return fmt.Errorf("list branches: %w", err)
	}
	existing = make(map[string]bool, len(branches))
	for _, b := range branches {
		existing[b.Name] = true
	}
	for i := range seedBranches {
		if existing[seedBranches[i].Name] {
			continue
		}
		if _, err := a.Branches.CreateBranch(ctx, &seedBranches[i]); err != nil {
			return fmt.Errorf("seed branch %s: %w", seedBranches[i].Name, err)
		}
		a.Logger.Info("Seeded branch", zap.String("name", seedBranches[i].Name))
	}

	return nil
}
