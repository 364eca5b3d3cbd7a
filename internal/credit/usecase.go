package credit

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/credit/dto"
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	IssueCredit(ctx context.Context, input *dto.IssueCreditInput) (*model.Credit, error)
	ListLines(ctx context.Context, memberID string) ([]model.Credit, error)

	// FindUsableLine and Debit join the transaction bound to ctx.
	FindUsableLine(ctx context.Context, memberID string, minRemaining decimal.Decimal) (*model.Credit, error)
	Debit(ctx context.Context, creditID string, amount decimal.Decimal) (*model.Credit, error)
}
