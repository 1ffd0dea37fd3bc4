package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published on the receipt stream.
const (
	EventReceiptCreated = "receipt.created"
	EventReceiptDeleted = "receipt.deleted"
)

// ReceiptEvent is a lightweight notification that the receipt collection
// changed. It carries the reference id and amount, not the full record;
// consumers fetch what they need.
type ReceiptEvent struct {
	Kind        string    `json:"kind"`
	ReferenceID string    `json:"reference_id"`
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewReceiptEvent creates an event stamped with the current time.
func NewReceiptEvent(kind, referenceID string, amountCents int64) *ReceiptEvent {
	return &ReceiptEvent{
		Kind:        kind,
		ReferenceID: referenceID,
		AmountCents: amountCents,
		OccurredAt:  time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ReceiptEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ReceiptEventFromJSON creates an event from JSON bytes
func ReceiptEventFromJSON(data []byte) (*ReceiptEvent, error) {
	var e ReceiptEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
