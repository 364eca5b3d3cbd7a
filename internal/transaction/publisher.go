package transaction

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/model"
)

// EventPublisher announces committed transactions. Publishing happens after
// commit and a failure does not undo the transaction.
type EventPublisher interface {
	PurchaseRecorded(ctx context.Context, p *model.Purchase, mode string) error
	SaleRecorded(ctx context.Context, s *model.Sale) error
}
