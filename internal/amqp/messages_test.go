package amqp

import (
	"testing"
	"time"
)

func TestReceiptEventJSON(t *testing.T) {
	event := NewReceiptEvent(EventReceiptCreated, "REF100001", 5000)

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := ReceiptEventFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Kind != EventReceiptCreated {
		t.Errorf("Kind = %q", got.Kind)
	}
	if got.ReferenceID != "REF100001" || got.AmountCents != 5000 {
		t.Errorf("payload mismatch: %+v", got)
	}
	if got.OccurredAt.IsZero() || time.Since(got.OccurredAt) > time.Minute {
		t.Errorf("OccurredAt not stamped: %v", got.OccurredAt)
	}
}

func TestReceiptEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ReceiptEventFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
