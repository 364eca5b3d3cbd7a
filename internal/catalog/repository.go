package catalog

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/catalog/dto"
	"github.com/fekuna/omnipos-community-store/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id string) (*model.Item, error)
	FindByName(ctx context.Context, name string) (*model.Item, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, int, error)

	// AdjustInventory adds delta to the item's inventory unless the result
	// would be negative. It reports whether a row was updated.
	AdjustInventory(ctx context.Context, id string, delta int64) (bool, error)
}
