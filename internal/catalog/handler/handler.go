package handler

import (
	"context"

	"github.com/fekuna/omnipos-community-store/internal/catalog"
	"github.com/fekuna/omnipos-community-store/internal/catalog/dto"
	"github.com/fekuna/omnipos-community-store/internal/rpc"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "CatalogService"

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CatalogHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(serviceName,
		rpc.Unary(serviceName, "CreateItem", h.CreateItem),
		rpc.Unary(serviceName, "GetItem", h.GetItem),
		rpc.Unary(serviceName, "ListItems", h.ListItems),
	)
}

func (h *CatalogHandler) CreateItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateItemInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	it, err := h.uc.CreateItem(ctx, &input)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(it)
}

func (h *CatalogHandler) GetItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		ID string `json:"id"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, err
	}

	it, err := h.uc.GetItem(ctx, in.ID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(it)
}

func (h *CatalogHandler) ListItems(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		Type     string `json:"type"`
		Search   string `json:"search"`
		Page     int    `json:"page"`
		PageSize int    `json:"pageSize"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, err
	}

	items, count, err := h.uc.ListItems(ctx, &dto.ItemFilters{
		Type:        in.Type,
		SearchQuery: in.Search,
		Page:        in.Page,
		PageSize:    in.PageSize,
	})
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.EncodeList("items", items, count)
}
