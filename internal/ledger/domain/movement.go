package domain

import (
	"context"
	"fmt"
	"time"
)

// MovementType is the closed set of ledger movement semantics.
type MovementType string

const (
	MovementPurchase    MovementType = "PURCHASE"
	MovementTransfer    MovementType = "TRANSFER"
	MovementAssignment  MovementType = "ASSIGNMENT"
	MovementExpenditure MovementType = "EXPENDITURE"
)

// Valid reports whether the movement type is one of the recognized values.
func (t MovementType) Valid() bool {
	switch t {
	case MovementPurchase, MovementTransfer, MovementAssignment, MovementExpenditure:
		return true
	}
	return false
}

// Movement is one immutable entry of the append-only transaction log.
// Corrections are made by appending compensating movements, never by editing.
type Movement struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	Type           MovementType `json:"type" gorm:"not null;index"`
	ItemTypeID     uint         `json:"item_type_id" gorm:"not null;index"`
	Quantity       int64        `json:"quantity" gorm:"not null"`
	FromLocationID *uint        `json:"from_location_id,omitempty" gorm:"index"`
	ToLocationID   *uint        `json:"to_location_id,omitempty" gorm:"index"`
	Recipient      string       `json:"recipient,omitempty"`
	PerformedBy    uint         `json:"performed_by"`
	PerformedName  string       `json:"performed_by_name,omitempty"`
	Timestamp      time.Time    `json:"timestamp" gorm:"not null;index"`
}

// TableName specifies the table name
func (Movement) TableName() string {
	return "movements"
}

// Delta is one signed quantity change against a single balance key. Applying
// a movement means applying every delta it yields, atomically with the log
// append.
type Delta struct {
	LocationID uint
	ItemTypeID uint
	Quantity   int64
}

// Validate checks the request-level invariants: positive quantity, recognized
// type, and the per-type required location fields. It never touches storage.
func (m *Movement) Validate() error {
	if !m.Type.Valid() {
		return fmt.Errorf("%w: unknown movement type %q", ErrInvalidRequest, m.Type)
	}
	if m.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidRequest)
	}
	if m.ItemTypeID == 0 {
		return fmt.Errorf("%w: item_type_id is required", ErrInvalidRequest)
	}
	switch m.Type {
	case MovementPurchase:
		if m.ToLocationID == nil {
			return fmt.Errorf("%w: to_location_id is required for purchases", ErrInvalidRequest)
		}
	case MovementTransfer:
		if m.FromLocationID == nil || m.ToLocationID == nil {
			return fmt.Errorf("%w: from_location_id and to_location_id are required for transfers", ErrInvalidRequest)
		}
		if *m.FromLocationID == *m.ToLocationID {
			return fmt.Errorf("%w: cannot transfer to the same location", ErrInvalidRequest)
		}
	case MovementAssignment, MovementExpenditure:
		if m.FromLocationID == nil {
			return fmt.Errorf("%w: from_location_id is required", ErrInvalidRequest)
		}
	}
	return nil
}

// Deltas computes the balance effect of the movement. The set of touched keys
// is a pure function of the type: purchases credit the destination, transfers
// move an equal and opposite pair, assignments and expenditures debit the
// source. Validate must have passed first.
func (m *Movement) Deltas() []Delta {
	switch m.Type {
	case MovementPurchase:
		return []Delta{
			{LocationID: *m.ToLocationID, ItemTypeID: m.ItemTypeID, Quantity: m.Quantity},
		}
	case MovementTransfer:
		return []Delta{
			{LocationID: *m.FromLocationID, ItemTypeID: m.ItemTypeID, Quantity: -m.Quantity},
			{LocationID: *m.ToLocationID, ItemTypeID: m.ItemTypeID, Quantity: m.Quantity},
		}
	case MovementAssignment, MovementExpenditure:
		return []Delta{
			{LocationID: *m.FromLocationID, ItemTypeID: m.ItemTypeID, Quantity: -m.Quantity},
		}
	}
	return nil
}

// TouchesLocation reports whether the movement reads from or writes to the
// given location.
func (m *Movement) TouchesLocation(locationID uint) bool {
	if m.FromLocationID != nil && *m.FromLocationID == locationID {
		return true
	}
	if m.ToLocationID != nil && *m.ToLocationID == locationID {
		return true
	}
	return false
}

// MovementRepository defines the contract for the transaction log and the
// balances it materializes. Commit applies the movement's deltas and appends
// the log entry as one atomic unit; either both happen or neither does.
type MovementRepository interface {
	// Commit atomically applies all deltas of the movement and appends it to
	// the log, assigning its timestamp. When enforceSufficiency is set, a
	// negative delta that would drive a balance below zero fails the whole
	// commit with ErrInsufficientInventory and no state change.
	Commit(ctx context.Context, movement *Movement, enforceSufficiency bool) error

	// FindAll returns the full log, newest first (timestamp desc, id desc).
	FindAll(ctx context.Context) ([]Movement, error)

	// FindByLocation returns the movements touching a location as source or
	// destination, newest first.
	FindByLocation(ctx context.Context, locationID uint) ([]Movement, error)
}
