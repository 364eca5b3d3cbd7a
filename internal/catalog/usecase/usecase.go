package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/catalog"
	"github.com/fekuna/omnipos-community-store/internal/catalog/dto"
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/validation"
	"github.com/fekuna/omnipos-community-store/pkg/cache"
	"github.com/fekuna/omnipos-community-store/pkg/database"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const listCacheTTL = 30 * time.Second

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient // optional
	logger logger.ZapLogger
}

// NewCatalogUseCase builds the catalog store. cache may be nil, in which case
// listings always hit the database.
func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *catalogUseCase) CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.Item, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if !input.WholesalePrice.IsPositive() {
		return nil, apperr.NewValidationError("wholesalePrice", "must be greater than 0")
	}
	if !input.MarketPrice.IsPositive() {
		return nil, apperr.NewValidationError("marketPrice", "must be greater than 0")
	}

	existing, err := uc.repo.FindByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("find item by name: %w", err)
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateItem
	}

	it := &model.Item{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Type:           model.ItemType(input.Type),
		WholesalePrice: input.WholesalePrice,
		MarketPrice:    input.MarketPrice,
		Unit:           input.Unit,
		Inventory:      input.Inventory,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, it); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.ErrDuplicateItem
		}
		uc.logger.Error("failed to create item", zap.String("name", input.Name), zap.Error(err))
		return nil, fmt.Errorf("create item: %w", err)
	}

	uc.InvalidateListings(ctx)
	return it, nil
}

func (uc *catalogUseCase) GetItem(ctx context.Context, id string) (*model.Item, error) {
	it, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	if it == nil {
		return nil, apperr.ErrItemNotFound
	}
	return it, nil
}

func (uc *catalogUseCase) GetItemByName(ctx context.Context, name string) (*model.Item, error) {
	it, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find item by name: %w", err)
	}
	if it == nil {
		return nil, apperr.ErrItemNotFound
	}
	return it, nil
}

func (uc *catalogUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, int, error) {
	var cacheKey string
	if uc.cache != nil {
		cacheKey = listCacheKey(filters)
		if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
			var result struct {
				Items []model.Item
				Count int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Items, result.Count, nil
			}
		}
	}

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}

	if cacheKey != "" {
		cacheData := struct {
			Items []model.Item
			Count int
		}{items, count}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, listCacheTTL)
		}
	}
	return items, count, nil
}

func (uc *catalogUseCase) AdjustInventory(ctx context.Context, itemID string, delta int64) error {
	ok, err := uc.repo.AdjustInventory(ctx, itemID, delta)
	if err != nil {
		return fmt.Errorf("adjust inventory: %w", err)
	}
	if ok {
		return nil
	}

	// No row matched: either the item is gone or stock would go negative.
	it, err := uc.repo.FindByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("find item: %w", err)
	}
	if it == nil {
		return apperr.ErrItemNotFound
	}
	return apperr.NewRuleError(apperr.ErrInsufficientStock, it.Inventory, -delta)
}

func (uc *catalogUseCase) InvalidateListings(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "store:items:list:*").Result()
	if err != nil {
		uc.logger.Warn("failed to list item cache keys", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func listCacheKey(filters *dto.ItemFilters) string {
	data, _ := json.Marshal(filters)
	return fmt.Sprintf("store:items:list:%x", md5.Sum(data))
}
