package domain

import "errors"

// Sentinel errors returned by the ledger core. Delivery layers map these to
// transport status codes with errors.Is.
var (
	// ErrInvalidRequest marks a movement request rejected before any mutation
	// (non-positive quantity, missing required locations, unknown type).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInsufficientInventory is returned when the sufficiency policy is
	// enabled and a negative delta would drive a balance below zero.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrCommitConflict marks transient contention on a balance key. The
	// repository retries internally; it only escapes after retries run out.
	ErrCommitConflict = errors.New("commit conflict")

	// ErrStorageUnavailable marks a storage failure with no partial state
	// persisted.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)
