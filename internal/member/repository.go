package member

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/model"
)

type Repository interface {
	Create(ctx context.Context, m *model.Member) error
	// FindByID returns nil, nil when the member does not exist.
	FindByID(ctx context.Context, id string) (*model.Member, error)
	FindAll(ctx context.Context) ([]model.Member, error)
}
