package handler

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/ration"
	"github.com/fekuna/omnipos-community-store/internal/ration/dto"
	"github.com/fekuna/omnipos-community-store/internal/rpc"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "RationService"

type RationHandler struct {
	uc     ration.UseCase
	logger logger.ZapLogger
}

func NewRationHandler(uc ration.UseCase, log logger.ZapLogger) *RationHandler {
	return &RationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *RationHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(serviceName,
		rpc.Unary(serviceName, "RenewCard", h.RenewCard),
		rpc.Unary(serviceName, "GetCard", h.GetCard),
		rpc.Unary(serviceName, "ListCards", h.ListCards),
	)
}

func (h *RationHandler) RenewCard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.RenewCardInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	card, err := h.uc.RenewCard(ctx, &input)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(card)
}

type cardRequest struct {
	MemberID string `json:"memberId"`
	Year     int    `json:"year"`
}

func (h *RationHandler) GetCard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in cardRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, err
	}

	card, err := h.uc.GetCard(ctx, in.MemberID, in.Year)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	if card == nil {
		return nil, rpc.ToStatus(apperr.ErrCardNotFound)
	}
	return rpc.Encode(card)
}

func (h *RationHandler) ListCards(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in cardRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, err
	}

	cards, err := h.uc.ListCards(ctx, in.MemberID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.EncodeList("cards", cards, len(cards))
}
