package catalog

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/catalog/dto"
	"github.com/fekuna/omnipos-community-store/internal/model"
)

type UseCase interface {
	CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	GetItemByName(ctx context.Context, name string) (*model.Item, error)
	ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, int, error)

	// AdjustInventory is reserved for the transaction engine and joins the
	// transaction bound to ctx.
	AdjustInventory(ctx context.Context, itemID string, delta int64) error
	// InvalidateListings drops cached ListItems results after stock changes.
	InvalidateListings(ctx context.Context)
}
