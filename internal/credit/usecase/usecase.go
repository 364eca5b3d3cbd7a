package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/credit"
	"github.com/fekuna/omnipos-community-store/internal/credit/dto"
	"github.com/fekuna/omnipos-community-store/internal/member"
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/validation"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type creditUseCase struct {
	repo    credit.Repository
	members member.UseCase
	ceiling decimal.Decimal
	logger  logger.ZapLogger
}

// NewCreditUseCase builds the credit ledger. ceiling caps the amount of any
// single issued line.
func NewCreditUseCase(repo credit.Repository, members member.UseCase, ceiling decimal.Decimal, log logger.ZapLogger) credit.UseCase {
	return &creditUseCase{
		repo:    repo,
		members: members,
		ceiling: ceiling,
		logger:  log,
	}
}

func (uc *creditUseCase) IssueCredit(ctx context.Context, input *dto.IssueCreditInput) (*model.Credit, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, apperr.NewValidationError("amount", "must be greater than 0")
	}
	if input.Amount.GreaterThan(uc.ceiling) {
		uc.logger.Warn("credit issue rejected",
			zap.String("member_id", input.MemberID),
			zap.String("amount", input.Amount.String()),
			zap.String("rule", "credit_limit_exceeded"),
		)
		return nil, apperr.NewRuleError(apperr.ErrCreditLimitExceeded, uc.ceiling, input.Amount)
	}

	if _, err := uc.members.GetMember(ctx, input.MemberID); err != nil {
		return nil, err
	}

	c := &model.Credit{
		ID:         uuid.New().String(),
		MemberID:   input.MemberID,
		Amount:     input.Amount,
		Remaining:  input.Amount,
		DateIssued: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		uc.logger.Error("failed to issue credit", zap.String("member_id", input.MemberID), zap.Error(err))
		return nil, fmt.Errorf("create credit: %w", err)
	}

	uc.logger.Info("credit issued", zap.String("member_id", c.MemberID), zap.String("credit_id", c.ID), zap.String("amount", c.Amount.String()))
	return c, nil
}

func (uc *creditUseCase) ListLines(ctx context.Context, memberID string) ([]model.Credit, error) {
	return uc.repo.FindByMember(ctx, memberID)
}

func (uc *creditUseCase) FindUsableLine(ctx context.Context, memberID string, minRemaining decimal.Decimal) (*model.Credit, error) {
	c, err := uc.repo.FindUsable(ctx, memberID, minRemaining)
	if err != nil {
		return nil, fmt.Errorf("find usable credit: %w", err)
	}
	return c, nil
}

func (uc *creditUseCase) Debit(ctx context.Context, creditID string, amount decimal.Decimal) (*model.Credit, error) {
	c, err := uc.repo.FindByID(ctx, creditID)
	if err != nil {
		return nil, fmt.Errorf("find credit: %w", err)
	}
	if c == nil {
		return nil, apperr.ErrCreditNotFound
	}
	if c.Remaining.LessThan(amount) {
		return nil, apperr.NewRuleError(apperr.ErrInsufficientFunds, c.Remaining, amount)
	}

	next := c.Remaining.Sub(amount)
	ok, err := uc.repo.UpdateRemaining(ctx, c.ID, c.Remaining, next)
	if err != nil {
		return nil, fmt.Errorf("debit credit: %w", err)
	}
	if !ok {
		// The balance moved since it was read.
		return nil, apperr.ErrContention
	}

	c.Remaining = next
	return c, nil
}
