package handler

import (
	"context"
	"net"
	"testing"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/rpc"
	"github.com/fekuna/omnipos-community-store/internal/transaction/dto"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubEngine struct {
	lastPurchase *dto.PurchaseInput
}

func (s *stubEngine) RecordPurchase(_ context.Context, in *dto.PurchaseInput) (*model.Purchase, error) {
	s.lastPurchase = in
	return &model.Purchase{
		ID:        "p1",
		MemberID:  in.MemberID,
		BranchID:  in.BranchID,
		Quantity:  in.Quantity,
		UnitPrice: decimal.NewFromInt(2),
		PricePaid: decimal.NewFromInt(2 * in.Quantity),
	}, nil
}

func (s *stubEngine) RecordSale(_ context.Context, in *dto.SaleInput) (*model.Sale, error) {
	return nil, apperr.NewRuleError(apperr.ErrBelowMinimumSale, 200, in.Quantity)
}

func (s *stubEngine) ListPurchases(context.Context, string) ([]model.Purchase, error) {
	return []model.Purchase{{ID: "p1"}}, nil
}

func (s *stubEngine) ListSales(context.Context, string) ([]model.Sale, error) { return nil, nil }

func dial(t *testing.T, engine *stubEngine) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	rpc.Register(srv, NewTransactionHandler(engine, logger.NewNopLogger()))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRecordPurchaseUsesBranchMetadata(t *testing.T) {
	engine := &stubEngine{}
	conn := dial(t, engine)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-branch-id", "west")
	req, _ := structpb.NewStruct(map[string]interface{}{"memberId": "m1", "itemId": "i1", "quantity": 3})
	resp := new(structpb.Struct)
	if err := conn.Invoke(ctx, "/communitystore.v1.TransactionService/RecordPurchase", req, resp); err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}

	if engine.lastPurchase.BranchID != "west" {
		t.Errorf("BranchID: got %q, want west", engine.lastPurchase.BranchID)
	}
	if engine.lastPurchase.Quantity != 3 {
		t.Errorf("Quantity: got %d, want 3", engine.lastPurchase.Quantity)
	}
	if got := resp.Fields["pricePaid"].GetStringValue(); got != "6" {
		t.Errorf("pricePaid: got %q, want 6", got)
	}
}

func TestRecordSaleMapsRuleViolation(t *testing.T) {
	conn := dial(t, &stubEngine{})

	req, _ := structpb.NewStruct(map[string]interface{}{"memberId": "m1", "branchId": "main", "itemId": "i1", "quantity": 199})
	err := conn.Invoke(context.Background(), "/communitystore.v1.TransactionService/RecordSale", req, new(structpb.Struct))
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", err)
	}
}

func TestListPurchasesRequiresMember(t *testing.T) {
	conn := dial(t, &stubEngine{})

	err := conn.Invoke(context.Background(), "/communitystore.v1.TransactionService/ListPurchases", &structpb.Struct{}, new(structpb.Struct))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}
