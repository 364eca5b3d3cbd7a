package listener

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/transaction/dto"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type fakeEngine struct {
	purchases []dto.PurchaseInput
	sales     []dto.SaleInput
}

func (f *fakeEngine) RecordPurchase(_ context.Context, in *dto.PurchaseInput) (*model.Purchase, error) {
	f.purchases = append(f.purchases, *in)
	return &model.Purchase{}, nil
}

func (f *fakeEngine) RecordSale(_ context.Context, in *dto.SaleInput) (*model.Sale, error) {
	f.sales = append(f.sales, *in)
	return &model.Sale{}, nil
}

func (f *fakeEngine) ListPurchases(context.Context, string) ([]model.Purchase, error) { return nil, nil }
func (f *fakeEngine) ListSales(context.Context, string) ([]model.Sale, error)         { return nil, nil }

// queueReader hands out queued messages, then cancels the listener.
type queueReader struct {
	msgs   []kafka.Message
	cancel context.CancelFunc
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(q.msgs) == 0 {
		q.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := q.msgs[0]
	q.msgs = q.msgs[1:]
	return msg, nil
}

func event(t *testing.T, eventType string, payload interface{}) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	value, err := json.Marshal(dto.Event{EventID: "e1", EventType: eventType, Payload: raw})
	if err != nil {
		t.Fatal(err)
	}
	return kafka.Message{Value: value}
}

func TestBranchListenerDispatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &queueReader{cancel: cancel, msgs: []kafka.Message{
		event(t, dto.EventPurchaseRequested, dto.PurchaseInput{MemberID: "m1", BranchID: "b1", ItemID: "i1", Quantity: 2, UseCredit: true}),
		{Value: []byte("not json")},
		event(t, "order.created", map[string]string{"id": "o1"}),
		event(t, dto.EventSaleRequested, dto.SaleInput{MemberID: "m1", BranchID: "b1", ItemID: "i1", Quantity: 200}),
	}}
	engine := &fakeEngine{}

	NewBranchListener(reader, engine, logger.NewNopLogger()).Start(ctx)

	if len(engine.purchases) != 1 || !engine.purchases[0].UseCredit || engine.purchases[0].Quantity != 2 {
		t.Errorf("unexpected purchases: %+v", engine.purchases)
	}
	if len(engine.sales) != 1 || engine.sales[0].Quantity != 200 {
		t.Errorf("unexpected sales: %+v", engine.sales)
	}
}
