package kafka

import "time"

// MovementCommittedEvent is emitted after a movement has been durably
// committed to the ledger.
type MovementCommittedEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	MovementID     uint      `json:"movement_id"`
	MovementType   string    `json:"movement_type"`
	ItemTypeID     uint      `json:"item_type_id"`
	Quantity       int64     `json:"quantity"`
	FromLocationID *uint     `json:"from_location_id,omitempty"`
	ToLocationID   *uint     `json:"to_location_id,omitempty"`
	Recipient      string    `json:"recipient,omitempty"`
	PerformedBy    uint      `json:"performed_by"`
	Timestamp      time.Time `json:"timestamp"`
}

// MovementRequestedEvent is an inbound movement request from an integrating
// system. It flows through the same transaction processor as the HTTP API.
type MovementRequestedEvent struct {
	EventID        string `json:"event_id"`
	EventType      string `json:"event_type"`
	MovementType   string `json:"movement_type"`
	ItemTypeID     uint   `json:"item_type_id"`
	Quantity       int64  `json:"quantity"`
	FromLocationID *uint  `json:"from_location_id,omitempty"`
	ToLocationID   *uint  `json:"to_location_id,omitempty"`
	Recipient      string `json:"recipient,omitempty"`
	RequestedBy    uint   `json:"requested_by"`
}

// Event types
const (
	EventTypeMovementCommitted = "movement.committed"
	EventTypeMovementRequested = "movement.requested"
)

// Kafka topics
const (
	TopicMovementCommitted = "movement-committed"
	TopicMovementRequests  = "movement-requests"
)
