package handler

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/branch"
	"github.com/fekuna/omnipos-community-store/internal/rpc"
	"github.com/fekuna/omnipos-community-store/internal/transaction"
	"github.com/fekuna/omnipos-community-store/internal/transaction/dto"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "TransactionService"

type TransactionHandler struct {
	uc     transaction.UseCase
	logger logger.ZapLogger
}

func NewTransactionHandler(uc transaction.UseCase, log logger.ZapLogger) *TransactionHandler {
	return &TransactionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TransactionHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(serviceName,
		rpc.Unary(serviceName, "RecordPurchase", h.RecordPurchase),
		rpc.Unary(serviceName, "RecordSale", h.RecordSale),
		rpc.Unary(serviceName, "ListPurchases", h.ListPurchases),
		rpc.Unary(serviceName, "ListSales", h.ListSales),
	)
}

func (h *TransactionHandler) RecordPurchase(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.PurchaseInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}
	if input.BranchID == "" {
		input.BranchID = branch.GetBranchID(ctx)
	}

	p, err := h.uc.RecordPurchase(ctx, &input)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(p)
}

func (h *TransactionHandler) RecordSale(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.SaleInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}
	if input.BranchID == "" {
		input.BranchID = branch.GetBranchID(ctx)
	}

	s, err := h.uc.RecordSale(ctx, &input)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(s)
}

type memberRequest struct {
	MemberID string `json:"memberId"`
}

func (h *TransactionHandler) ListPurchases(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in memberRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, err
	}
	if in.MemberID == "" {
		return nil, status.Error(codes.InvalidArgument, "memberId is required")
	}

	purchases, err := h.uc.ListPurchases(ctx, in.MemberID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.EncodeList("purchases", purchases, len(purchases))
}

func (h *TransactionHandler) ListSales(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in memberRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, err
	}
	if in.MemberID == "" {
		return nil, status.Error(codes.InvalidArgument, "memberId is required")
	}

	sales, err := h.uc.ListSales(ctx, in.MemberID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.EncodeList("sales", sales, len(sales))
}
