package ration

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/model"
)

type Repository interface {
	Create(ctx context.Context, card *model.RationCard) error
	FindByID(ctx context.Context, id string) (*model.RationCard, error)
	// FindByMemberYear returns nil, nil when the member has no card that year.
	FindByMemberYear(ctx context.Context, memberID string, year int) (*model.RationCard, error)
	FindByMember(ctx context.Context, memberID string) ([]model.RationCard, error)
	// UpdateConsumed writes next only while the stored map still equals prev.
	// It reports whether a row was updated.
	UpdateConsumed(ctx context.Context, cardID string, prev, next model.Quantities) (bool, error)
}
