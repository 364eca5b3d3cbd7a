package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/catalog"
	"github.com/fekuna/omnipos-community-store/internal/credit"
	"github.com/fekuna/omnipos-community-store/internal/locker"
	"github.com/fekuna/omnipos-community-store/internal/member"
	"github.com/fekuna/omnipos-community-store/internal/metrics"
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/pricing"
	"github.com/fekuna/omnipos-community-store/internal/ration"
	"github.com/fekuna/omnipos-community-store/internal/transaction"
	"github.com/fekuna/omnipos-community-store/internal/transaction/dto"
	"github.com/fekuna/omnipos-community-store/internal/txmanager"
	"github.com/fekuna/omnipos-community-store/internal/validation"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/fekuna/omnipos-community-store/internal/transaction")

// Rules are the engine's configurable business constants.
type Rules struct {
	PerPersonRation int64
	MinSaleFraction decimal.Decimal
	// MaxRetries bounds how often a contended request is re-run.
	MaxRetries int
	RetryDelay time.Duration
}

type Deps struct {
	Repo      transaction.Repository
	Tx        *txmanager.Manager
	Members   member.UseCase
	Items     catalog.UseCase
	Rations   ration.UseCase
	Credits   credit.UseCase
	Locker    locker.Locker
	Publisher transaction.EventPublisher
	Metrics   *metrics.Metrics
	// Now is the clock used to pick the ration year. Defaults to time.Now.
	Now func() time.Time
}

type transactionUseCase struct {
	Deps
	rules  Rules
	logger logger.ZapLogger
}

func NewTransactionUseCase(deps Deps, rules Rules, log logger.ZapLogger) transaction.UseCase {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if rules.RetryDelay <= 0 {
		rules.RetryDelay = 50 * time.Millisecond
	}
	return &transactionUseCase{
		Deps:   deps,
		rules:  rules,
		logger: log,
	}
}

func (uc *transactionUseCase) RecordPurchase(ctx context.Context, input *dto.PurchaseInput) (*model.Purchase, error) {
	ctx, span := tracer.Start(ctx, "transaction.RecordPurchase", trace.WithAttributes(
		attribute.String("member_id", input.MemberID),
		attribute.String("item_id", input.ItemID),
		attribute.Int64("quantity", input.Quantity),
		attribute.Bool("use_credit", input.UseCredit),
	))
	defer span.End()

	start := time.Now()
	log := uc.logger.With(
		zap.String("member_id", input.MemberID),
		zap.String("branch_id", input.BranchID),
		zap.String("item_id", input.ItemID),
	)

	if err := validation.Struct(input); err != nil {
		return nil, uc.reject(span, log, "purchase", err)
	}

	var (
		p     *model.Purchase
		quote pricing.Quote
	)
	err := uc.retry(ctx, func() error {
		var err error
		p, quote, err = uc.purchase(ctx, input)
		return err
	})
	if err != nil {
		return nil, uc.reject(span, log, "purchase", err)
	}

	uc.Items.InvalidateListings(ctx)
	if err := uc.Publisher.PurchaseRecorded(ctx, p, string(quote.Mode)); err != nil {
		log.Error("failed to publish purchase event", zap.String("purchase_id", p.ID), zap.Error(err))
	}
	uc.Metrics.ObservePurchase(string(quote.Mode), time.Since(start))

	span.SetAttributes(attribute.String("mode", string(quote.Mode)), attribute.String("price_paid", p.PricePaid.String()))
	log.Info("purchase recorded",
		zap.String("purchase_id", p.ID),
		zap.String("mode", string(quote.Mode)),
		zap.String("price_paid", p.PricePaid.String()),
	)
	return p, nil
}

func (uc *transactionUseCase) purchase(ctx context.Context, input *dto.PurchaseInput) (*model.Purchase, pricing.Quote, error) {
	if _, err := uc.Members.GetMember(ctx, input.MemberID); err != nil {
		return nil, pricing.Quote{}, err
	}

	now := uc.Now().UTC()
	year := now.Year()

	// 1. Acquire locks
	keys := []string{locker.ItemKey(input.ItemID), locker.CardKey(input.MemberID, year)}
	if input.UseCredit {
		keys = append(keys, locker.CreditKey(input.MemberID))
	}
	release, err := uc.Locker.Acquire(ctx, keys...)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	defer release()

	// 2. Check stock
	item, err := uc.Items.GetItem(ctx, input.ItemID)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	if item.Inventory < input.Quantity {
		return nil, pricing.Quote{}, apperr.NewRuleError(apperr.ErrInsufficientStock, item.Inventory, input.Quantity)
	}

	// 3. Resolve price against this year's card
	card, err := uc.Rations.GetCard(ctx, input.MemberID, year)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	quote := pricing.Resolve(item, input.Quantity, card, input.UseCredit)

	p := &model.Purchase{
		ID:        uuid.New().String(),
		MemberID:  input.MemberID,
		BranchID:  input.BranchID,
		ItemID:    item.ID,
		Quantity:  input.Quantity,
		UnitPrice: quote.UnitPrice,
		PricePaid: quote.TotalPrice,
		OnCredit:  input.UseCredit,
		CreatedAt: now,
	}

	// 4. Commit every effect together
	err = uc.Tx.WithTx(ctx, func(ctx context.Context) error {
		if input.UseCredit {
			line, err := uc.Credits.FindUsableLine(ctx, input.MemberID, quote.TotalPrice)
			if err != nil {
				return err
			}
			if line == nil {
				best, err := uc.bestCreditBalance(ctx, input.MemberID)
				if err != nil {
					return err
				}
				return apperr.NewRuleError(apperr.ErrInsufficientCredit, best, quote.TotalPrice)
			}
			if _, err := uc.Credits.Debit(ctx, line.ID, quote.TotalPrice); err != nil {
				return err
			}
		}

		if err := uc.Repo.CreatePurchase(ctx, p); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}

		if err := uc.Items.AdjustInventory(ctx, item.ID, -input.Quantity); err != nil {
			return err
		}

		if quote.RecordConsumption {
			if _, err := uc.Rations.RecordConsumption(ctx, card.ID, item.ID, input.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	return p, quote, nil
}

func (uc *transactionUseCase) RecordSale(ctx context.Context, input *dto.SaleInput) (*model.Sale, error) {
	ctx, span := tracer.Start(ctx, "transaction.RecordSale", trace.WithAttributes(
		attribute.String("member_id", input.MemberID),
		attribute.String("item_id", input.ItemID),
		attribute.Int64("quantity", input.Quantity),
	))
	defer span.End()

	start := time.Now()
	log := uc.logger.With(
		zap.String("member_id", input.MemberID),
		zap.String("branch_id", input.BranchID),
		zap.String("item_id", input.ItemID),
	)

	if err := validation.Struct(input); err != nil {
		return nil, uc.reject(span, log, "sale", err)
	}

	var s *model.Sale
	err := uc.retry(ctx, func() error {
		var err error
		s, err = uc.sale(ctx, input)
		return err
	})
	if err != nil {
		return nil, uc.reject(span, log, "sale", err)
	}

	uc.Items.InvalidateListings(ctx)
	if err := uc.Publisher.SaleRecorded(ctx, s); err != nil {
		log.Error("failed to publish sale event", zap.String("sale_id", s.ID), zap.Error(err))
	}
	uc.Metrics.ObserveSale(time.Since(start))

	log.Info("sale recorded", zap.String("sale_id", s.ID), zap.Int64("quantity", s.Quantity))
	return s, nil
}

func (uc *transactionUseCase) sale(ctx context.Context, input *dto.SaleInput) (*model.Sale, error) {
	m, err := uc.Members.GetMember(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}

	minimum := uc.minimumSale(m.HouseholdSize)
	if decimal.NewFromInt(input.Quantity).LessThan(minimum) {
		return nil, apperr.NewRuleError(apperr.ErrBelowMinimumSale, minimum, input.Quantity)
	}

	release, err := uc.Locker.Acquire(ctx, locker.ItemKey(input.ItemID))
	if err != nil {
		return nil, err
	}
	defer release()

	s := &model.Sale{
		ID:        uuid.New().String(),
		MemberID:  m.ID,
		BranchID:  input.BranchID,
		ItemID:    input.ItemID,
		Quantity:  input.Quantity,
		CreatedAt: uc.Now().UTC(),
	}

	err = uc.Tx.WithTx(ctx, func(ctx context.Context) error {
		// Restock first so a missing item fails before the sale row hits
		// the foreign key.
		if err := uc.Items.AdjustInventory(ctx, input.ItemID, input.Quantity); err != nil {
			return err
		}
		if err := uc.Repo.CreateSale(ctx, s); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// minimumSale is householdSize × per-person ration × minimum fraction.
func (uc *transactionUseCase) minimumSale(householdSize int) decimal.Decimal {
	return decimal.NewFromInt(int64(householdSize)).
		Mul(decimal.NewFromInt(uc.rules.PerPersonRation)).
		Mul(uc.rules.MinSaleFraction)
}

func (uc *transactionUseCase) ListPurchases(ctx context.Context, memberID string) ([]model.Purchase, error) {
	return uc.Repo.FindPurchasesByMember(ctx, memberID)
}

func (uc *transactionUseCase) ListSales(ctx context.Context, memberID string) ([]model.Sale, error) {
	return uc.Repo.FindSalesByMember(ctx, memberID)
}

// retry re-runs fn while it fails with a retryable error, up to MaxRetries
// extra attempts.
func (uc *transactionUseCase) retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !apperr.IsRetryable(err) || attempt >= uc.rules.MaxRetries {
			return err
		}

		uc.logger.Debug("retrying contended operation", zap.Int("attempt", attempt+1), zap.Error(err))
		select {
		case <-ctx.Done():
			return err
		case <-time.After(uc.rules.RetryDelay * time.Duration(attempt+1)):
		}
	}
}

// reject records a failed operation on the span, metrics and log, and
// returns err unchanged.
func (uc *transactionUseCase) reject(span trace.Span, log logger.ZapLogger, operation string, err error) error {
	rule := apperr.RuleName(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, rule)
	uc.Metrics.ObserveRejection(operation, rule)

	if rule == "internal" {
		log.Error(operation+" failed", zap.Error(err))
	} else {
		log.Warn(operation+" rejected", zap.String("rule", rule), zap.Error(err))
	}
	return err
}

// bestCreditBalance is the largest remaining balance on any of the member's
// lines, zero when there are none.
func (uc *transactionUseCase) bestCreditBalance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	lines, err := uc.Credits.ListLines(ctx, memberID)
	if err != nil {
		return decimal.Zero, err
	}

	best := decimal.Zero
	for _, l := range lines {
		if l.Remaining.GreaterThan(best) {
			best = l.Remaining
		}
	}
	return best, nil
}
