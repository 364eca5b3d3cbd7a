package transaction

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/model"
)

// Repository stores the immutable purchase and sale records.
type Repository interface {
	CreatePurchase(ctx context.Context, p *model.Purchase) error
	CreateSale(ctx context.Context, s *model.Sale) error
	FindPurchasesByMember(ctx context.Context, memberID string) ([]model.Purchase, error)
	FindSalesByMember(ctx context.Context, memberID string) ([]model.Sale, error)
}
