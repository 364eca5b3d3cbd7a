package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/transaction"
	"github.com/fekuna/omnipos-community-store/internal/transaction/dto"
	"github.com/google/uuid"
)

// Producer is the part of broker.KafkaProducer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type KafkaPublisher struct {
	producer Producer
}

func NewKafkaPublisher(producer Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

var _ transaction.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PurchaseRecorded(ctx context.Context, pur *model.Purchase, mode string) error {
	return p.publish(ctx, dto.EventPurchaseRecorded, pur.MemberID, dto.PurchaseRecordedPayload{
		PurchaseID: pur.ID,
		MemberID:   pur.MemberID,
		BranchID:   pur.BranchID,
		ItemID:     pur.ItemID,
		Quantity:   pur.Quantity,
		UnitPrice:  pur.UnitPrice.String(),
		PricePaid:  pur.PricePaid.String(),
		Mode:       mode,
	})
}

func (p *KafkaPublisher) SaleRecorded(ctx context.Context, s *model.Sale) error {
	return p.publish(ctx, dto.EventSaleRecorded, s.MemberID, dto.SaleRecordedPayload{
		SaleID:   s.ID,
		MemberID: s.MemberID,
		BranchID: s.BranchID,
		ItemID:   s.ItemID,
		Quantity: s.Quantity,
	})
}

// publish keys messages by member so one member's events stay ordered.
func (p *KafkaPublisher) publish(ctx context.Context, eventType, key string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := dto.Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, key, value)
}

// NopPublisher drops events; used when Kafka is disabled.
type NopPublisher struct{}

var _ transaction.EventPublisher = NopPublisher{}

func (NopPublisher) PurchaseRecorded(context.Context, *model.Purchase, string) error { return nil }
func (NopPublisher) SaleRecorded(context.Context, *model.Sale) error                 { return nil }
