package handler

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/branch"
	"github.com/fekuna/omnipos-community-store/internal/branch/dto"
	"github.com/fekuna/omnipos-community-store/internal/rpc"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "BranchService"

type BranchHandler struct {
	uc     branch.UseCase
	logger logger.ZapLogger
}

func NewBranchHandler(uc branch.UseCase, log logger.ZapLogger) *BranchHandler {
	return &BranchHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *BranchHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(serviceName,
		rpc.Unary(serviceName, "CreateBranch", h.CreateBranch),
		rpc.Unary(serviceName, "ListBranches", h.ListBranches),
	)
}

func (h *BranchHandler) CreateBranch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateBranchInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	b, err := h.uc.CreateBranch(ctx, &input)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(b)
}

func (h *BranchHandler) ListBranches(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	branches, err := h.uc.ListBranches(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.EncodeList("branches", branches, len(branches))
}
