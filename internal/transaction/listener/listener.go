package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/transaction"
	"github.com/fekuna/omnipos-community-store/internal/transaction/dto"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of broker.KafkaConsumer the listener uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// BranchListener feeds purchase and sale requests from branch POS terminals
// into the transaction engine.
type BranchListener struct {
	consumer MessageReader
	uc       transaction.UseCase
	logger   logger.ZapLogger
}

func NewBranchListener(consumer MessageReader, uc transaction.UseCase, logger logger.ZapLogger) *BranchListener {
	return &BranchListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *BranchListener) Start(ctx context.Context) {
	l.logger.Info("Starting Branch Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Branch Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *BranchListener) processMessage(ctx context.Context, value []byte) {
	var event dto.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	var err error
	switch event.EventType {
	case dto.EventPurchaseRequested:
		var input dto.PurchaseInput
		if err = json.Unmarshal(event.Payload, &input); err == nil {
			_, err = l.uc.RecordPurchase(ctx, &input)
		}
	case dto.EventSaleRequested:
		var input dto.SaleInput
		if err = json.Unmarshal(event.Payload, &input); err == nil {
			_, err = l.uc.RecordSale(ctx, &input)
		}
	default:
		return
	}

	if err == nil {
		return
	}
	// Business rejections are final; the engine has already logged them.
	if apperr.IsRuleViolation(err) || apperr.IsNotFound(err) || apperr.IsValidation(err) {
		l.logger.Info("Branch event rejected",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.String("rule", apperr.RuleName(err)),
		)
		return
	}
	l.logger.Error("Failed to process branch event",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.Error(err),
	)
}
