package member

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/member/dto"
	"github.com/fekuna/omnipos-community-store/internal/model"
)

// UseCase is the member directory consulted by the engine.
type UseCase interface {
	CreateMember(ctx context.Context, input *dto.CreateMemberInput) (*model.Member, error)
	GetMember(ctx context.Context, id string) (*model.Member, error)
	ListMembers(ctx context.Context) ([]model.Member, error)
}
