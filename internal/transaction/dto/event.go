package dto

import (
	"encoding/json"
	"time"
)

const (
	EventPurchaseRequested = "purchase.requested"
	EventSaleRequested     = "sale.requested"
	EventPurchaseRecorded  = "purchase.recorded"
	EventSaleRecorded      = "sale.recorded"
)

// Event is the envelope shared by inbound branch events and outbound
// store events.
type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type PurchaseRecordedPayload struct {
	PurchaseID string `json:"purchaseId"`
	MemberID   string `json:"memberId"`
	BranchID   string `json:"branchId"`
	ItemID     string `json:"itemId"`
	Quantity   int64  `json:"quantity"`
	UnitPrice  string `json:"unitPrice"`
	PricePaid  string `json:"pricePaid"`
	Mode       string `json:"mode"`
}

type SaleRecordedPayload struct {
	SaleID   string `json:"saleId"`
	MemberID string `json:"memberId"`
	BranchID string `json:"branchId"`
	ItemID   string `json:"itemId"`
	Quantity int64  `json:"quantity"`
}
