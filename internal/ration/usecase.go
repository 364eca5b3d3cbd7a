package ration

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/ration/dto"
)

// UseCase is the ration ledger: one card per member per calendar year.
type UseCase interface {
	// GetCard returns nil, nil when no card exists.
	GetCard(ctx context.Context, memberID string, year int) (*model.RationCard, error)
	ListCards(ctx context.Context, memberID string) ([]model.RationCard, error)
	CreateCard(ctx context.Context, memberID string, year int, allowance model.Quantities) (*model.RationCard, error)
	RenewCard(ctx context.Context, input *dto.RenewCardInput) (*model.RationCard, error)
	// RecordConsumption adds quantity to the card's consumed counter for the
	// item. It joins the transaction bound to ctx.
	RecordConsumption(ctx context.Context, cardID, itemID string, quantity int64) (*model.RationCard, error)
}
