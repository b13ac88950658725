package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
)

func newTestHandler(handled *[]MovementRequestedEvent) *consumerGroupHandler {
	consumer := &Consumer{
		groupID: "test-group",
		handler: func(ctx context.Context, event MovementRequestedEvent) error {
			*handled = append(*handled, event)
			return nil
		},
	}
	return &consumerGroupHandler{consumer: consumer}
}

func requestMessage(t *testing.T, event MovementRequestedEvent) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return &sarama.ConsumerMessage{Topic: TopicMovementRequests, Value: value}
}

func TestConsumerHandlesMovementRequest(t *testing.T) {
	var handled []MovementRequestedEvent
	h := newTestHandler(&handled)

	to := uint(1)
	h.handleMessage(context.Background(), requestMessage(t, MovementRequestedEvent{
		EventID:      "evt-1",
		EventType:    EventTypeMovementRequested,
		MovementType: "PURCHASE",
		ItemTypeID:   1,
		Quantity:     100,
		ToLocationID: &to,
		RequestedBy:  7,
	}))

	if len(handled) != 1 {
		t.Fatalf("expected 1 handled event, got %d", len(handled))
	}
	if handled[0].EventID != "evt-1" || handled[0].Quantity != 100 {
		t.Fatalf("handled event mangled: %+v", handled[0])
	}
}

func TestConsumerSkipsUnexpectedEventType(t *testing.T) {
	var handled []MovementRequestedEvent
	h := newTestHandler(&handled)

	h.handleMessage(context.Background(), requestMessage(t, MovementRequestedEvent{
		EventID:      "evt-2",
		EventType:    EventTypeMovementCommitted,
		MovementType: "PURCHASE",
		Quantity:     5,
	}))
	h.handleMessage(context.Background(), requestMessage(t, MovementRequestedEvent{
		EventID:      "evt-3",
		MovementType: "PURCHASE",
		Quantity:     5,
	}))

	if len(handled) != 0 {
		t.Fatalf("expected no handled events, got %d", len(handled))
	}
}

func TestConsumerSkipsMalformedPayload(t *testing.T) {
	var handled []MovementRequestedEvent
	h := newTestHandler(&handled)

	h.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Topic: TopicMovementRequests,
		Value: []byte("not json"),
	})

	if len(handled) != 0 {
		t.Fatalf("expected no handled events, got %d", len(handled))
	}
}
