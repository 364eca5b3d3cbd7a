package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/member"
	"github.com/fekuna/omnipos-community-store/internal/member/dto"
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/validation"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memberUseCase struct {
	repo   member.Repository
	logger logger.ZapLogger
}

func NewMemberUseCase(repo member.Repository, log logger.ZapLogger) member.UseCase {
	return &memberUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *memberUseCase) CreateMember(ctx context.Context, input *dto.CreateMemberInput) (*model.Member, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	m := &model.Member{
		ID:            uuid.New().String(),
		Name:          input.Name,
		Email:         input.Email,
		HouseholdSize: input.HouseholdSize,
		CreatedAt:     time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		uc.logger.Error("failed to create member", zap.Error(err))
		return nil, fmt.Errorf("create member: %w", err)
	}
	return m, nil
}

func (uc *memberUseCase) GetMember(ctx context.Context, id string) (*model.Member, error) {
	m, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	if m == nil {
		return nil, apperr.ErrMemberNotFound
	}
	return m, nil
}

func (uc *memberUseCase) ListMembers(ctx context.Context) ([]model.Member, error) {
	return uc.repo.FindAll(ctx)
}
