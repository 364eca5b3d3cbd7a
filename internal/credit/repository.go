package credit

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, c *model.Credit) error
	FindByID(ctx context.Context, id string) (*model.Credit, error)
	FindByMember(ctx context.Context, memberID string) ([]model.Credit, error)
	// FindUsable returns the oldest line with at least minRemaining left, or nil.
	FindUsable(ctx context.Context, memberID string, minRemaining decimal.Decimal) (*model.Credit, error)
	// UpdateRemaining sets remaining to next only while it still equals prev.
	// It reports whether a row was updated.
	UpdateRemaining(ctx context.Context, id string, prev, next decimal.Decimal) (bool, error)
}
