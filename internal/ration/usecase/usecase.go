package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/catalog"
	"github.com/fekuna/omnipos-community-store/internal/member"
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/ration"
	"github.com/fekuna/omnipos-community-store/internal/ration/dto"
	"github.com/fekuna/omnipos-community-store/internal/validation"
	"github.com/fekuna/omnipos-community-store/pkg/database"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type rationUseCase struct {
	repo    ration.Repository
	members member.UseCase
	items   catalog.UseCase
	// defaults is the per-person yearly quota keyed by item name.
	defaults map[string]int64
	logger   logger.ZapLogger
}

func NewRationUseCase(
	repo ration.Repository,
	members member.UseCase,
	items catalog.UseCase,
	defaults map[string]int64,
	log logger.ZapLogger,
) ration.UseCase {
	return &rationUseCase{
		repo:     repo,
		members:  members,
		items:    items,
		defaults: defaults,
		logger:   log,
	}
}

func (uc *rationUseCase) GetCard(ctx context.Context, memberID string, year int) (*model.RationCard, error) {
	card, err := uc.repo.FindByMemberYear(ctx, memberID, year)
	if err != nil {
		return nil, fmt.Errorf("find ration card: %w", err)
	}
	return card, nil
}

func (uc *rationUseCase) ListCards(ctx context.Context, memberID string) ([]model.RationCard, error) {
	return uc.repo.FindByMember(ctx, memberID)
}

func (uc *rationUseCase) CreateCard(ctx context.Context, memberID string, year int, allowance model.Quantities) (*model.RationCard, error) {
	existing, err := uc.repo.FindByMemberYear(ctx, memberID, year)
	if err != nil {
		return nil, fmt.Errorf("find ration card: %w", err)
	}
	if existing != nil {
		return nil, apperr.NewRuleError(apperr.ErrDuplicateCard, existing.ID, year)
	}

	card := &model.RationCard{
		ID:          uuid.New().String(),
		MemberID:    memberID,
		Year:        year,
		Allowance:   allowance.Clone(),
		Consumed:    model.Quantities{},
		RenewalDate: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, card); err != nil {
		// Lost a race with a concurrent renewal; the unique index decided.
		if database.IsUniqueViolation(err) {
			return nil, apperr.NewRuleError(apperr.ErrDuplicateCard, "exists", year)
		}
		uc.logger.Error("failed to create ration card", zap.String("member_id", memberID), zap.Int("year", year), zap.Error(err))
		return nil, fmt.Errorf("create ration card: %w", err)
	}
	return card, nil
}

func (uc *rationUseCase) RenewCard(ctx context.Context, input *dto.RenewCardInput) (*model.RationCard, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	m, err := uc.members.GetMember(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}

	year := input.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	var allowance model.Quantities
	if len(input.Allowance) > 0 {
		allowance, err = uc.resolveAllowance(ctx, input.Allowance)
	} else {
		allowance, err = uc.defaultAllowance(ctx, m.HouseholdSize)
	}
	if err != nil {
		return nil, err
	}

	card, err := uc.CreateCard(ctx, m.ID, year, allowance)
	if err != nil {
		if apperr.IsDuplicate(err) {
			uc.logger.Warn("ration card renewal rejected", zap.String("member_id", m.ID), zap.Int("year", year), zap.String("rule", apperr.RuleName(err)))
		}
		return nil, err
	}

	uc.logger.Info("ration card renewed", zap.String("member_id", m.ID), zap.Int("year", year), zap.String("card_id", card.ID))
	return card, nil
}

// resolveAllowance maps keys given as item IDs or item names to item IDs.
func (uc *rationUseCase) resolveAllowance(ctx context.Context, raw map[string]int64) (model.Quantities, error) {
	allowance := make(model.Quantities, len(raw))
	for _, key := range sortedKeys(raw) {
		it, err := uc.lookupItem(ctx, key)
		if err != nil {
			return nil, err
		}
		if it == nil {
			return nil, apperr.NewValidationError("allowance", fmt.Sprintf("unknown item %q", key))
		}
		allowance[it.ID] += raw[key]
	}
	return allowance, nil
}

func (uc *rationUseCase) defaultAllowance(ctx context.Context, householdSize int) (model.Quantities, error) {
	allowance := make(model.Quantities, len(uc.defaults))
	for _, name := range sortedKeys(uc.defaults) {
		it, err := uc.lookupItem(ctx, name)
		if err != nil {
			return nil, err
		}
		if it == nil {
			uc.logger.Warn("default allowance names an item missing from the catalog", zap.String("item", name))
			continue
		}
		allowance[it.ID] += uc.defaults[name] * int64(householdSize)
	}
	return allowance, nil
}

func (uc *rationUseCase) lookupItem(ctx context.Context, key string) (*model.Item, error) {
	it, err := uc.items.GetItem(ctx, key)
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, apperr.ErrItemNotFound) {
		return nil, err
	}

	it, err = uc.items.GetItemByName(ctx, key)
	if errors.Is(err, apperr.ErrItemNotFound) {
		return nil, nil
	}
	return it, err
}

func (uc *rationUseCase) RecordConsumption(ctx context.Context, cardID, itemID string, quantity int64) (*model.RationCard, error) {
	card, err := uc.repo.FindByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("find ration card: %w", err)
	}
	if card == nil {
		return nil, apperr.ErrCardNotFound
	}

	consumed := card.Consumed.Clone()
	consumed[itemID] += quantity
	if consumed[itemID] > card.Allowance.Get(itemID) {
		return nil, apperr.NewRuleError(apperr.ErrAllowanceExceeded, card.Remaining(itemID), quantity)
	}

	ok, err := uc.repo.UpdateConsumed(ctx, card.ID, card.Consumed, consumed)
	if err != nil {
		return nil, fmt.Errorf("update consumed: %w", err)
	}
	if !ok {
		// Another writer changed the card since it was read.
		return nil, apperr.ErrContention
	}

	card.Consumed = consumed
	return card, nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
