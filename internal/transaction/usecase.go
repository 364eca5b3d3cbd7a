package transaction

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/transaction/dto"
)

// UseCase is the transaction engine. Each call either commits every effect
// of the request or none of them.
type UseCase interface {
	RecordPurchase(ctx context.Context, input *dto.PurchaseInput) (*model.Purchase, error)
	RecordSale(ctx context.Context, input *dto.SaleInput) (*model.Sale, error)
	ListPurchases(ctx context.Context, memberID string) ([]model.Purchase, error)
	ListSales(ctx context.Context, memberID string) ([]model.Sale, error)
}
