package branch

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/model"
)

type Repository interface {
	Create(ctx context.Context, b *model.Branch) error
	FindByName(ctx context.Context, name string) (*model.Branch, error)
	FindAll(ctx context.Context) ([]model.Branch, error)
}
