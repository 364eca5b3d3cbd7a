package branch

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/branch/dto"
	"github.com/fekuna/omnipos-community-store/internal/model"
)

type UseCase interface {
	CreateBranch(ctx context.Context, input *dto.CreateBranchInput) (*model.Branch, error)
	ListBranches(ctx context.Context) ([]model.Branch, error)
}
