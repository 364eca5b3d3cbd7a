package handler

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/member"
	"github.com/fekuna/omnipos-community-store/internal/member/dto"
	"github.com/fekuna/omnipos-community-store/internal/rpc"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "MemberService"

type MemberHandler struct {
	uc     member.UseCase
	logger logger.ZapLogger
}

func NewMemberHandler(uc member.UseCase, log logger.ZapLogger) *MemberHandler {
	return &MemberHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *MemberHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(serviceName,
		rpc.Unary(serviceName, "CreateMember", h.CreateMember),
		rpc.Unary(serviceName, "GetMember", h.GetMember),
		rpc.Unary(serviceName, "ListMembers", h.ListMembers),
	)
}

func (h *MemberHandler) CreateMember(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateMemberInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	m, err := h.uc.CreateMember(ctx, &input)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(m)
}

func (h *MemberHandler) GetMember(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		ID string `json:"id"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, err
	}

	m, err := h.uc.GetMember(ctx, in.ID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(m)
}

func (h *MemberHandler) ListMembers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	members, err := h.uc.ListMembers(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.EncodeList("members", members, len(members))
}
