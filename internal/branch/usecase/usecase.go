package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/branch"
	"github.com/fekuna/omnipos-community-store/internal/branch/dto"
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/validation"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type branchUseCase struct {
	repo   branch.Repository
	logger logger.ZapLogger
}

func NewBranchUseCase(repo branch.Repository, log logger.ZapLogger) branch.UseCase {
	return &branchUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *branchUseCase) CreateBranch(ctx context.Context, input *dto.CreateBranchInput) (*model.Branch, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("find branch: %w", err)
	}
	if existing != nil {
		return nil, apperr.NewValidationError("name", "branch already exists")
	}

	b := &model.Branch{
		ID:       uuid.New().String(),
		Name:     input.Name,
		Location: input.Location,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		uc.logger.Error("failed to create branch", zap.String("name", input.Name), zap.Error(err))
		return nil, fmt.Errorf("create branch: %w", err)
	}
	return b, nil
}

func (uc *branchUseCase) ListBranches(ctx context.Context) ([]model.Branch, error) {
	return uc.repo.FindAll(ctx)
}
