package handler

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/credit"
	"github.com/fekuna/omnipos-community-store/internal/credit/dto"
	"github.com/fekuna/omnipos-community-store/internal/rpc"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "CreditService"

type CreditHandler struct {
	uc     credit.UseCase
	logger logger.ZapLogger
}

func NewCreditHandler(uc credit.UseCase, log logger.ZapLogger) *CreditHandler {
	return &CreditHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CreditHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(serviceName,
		rpc.Unary(serviceName, "IssueCredit", h.IssueCredit),
		rpc.Unary(serviceName, "ListLines", h.ListLines),
	)
}

func (h *CreditHandler) IssueCredit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.IssueCreditInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	c, err := h.uc.IssueCredit(ctx, &input)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(c)
}

func (h *CreditHandler) ListLines(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		MemberID string `json:"memberId"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, err
	}

	lines, err := h.uc.ListLines(ctx, in.MemberID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.EncodeList("credits", lines, len(lines))
}
