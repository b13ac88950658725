package domain

import "context"

// Balance is the materialized quantity for one (location, item type) pair.
// Rows are created lazily by the first movement touching the key and are only
// ever mutated through MovementRepository.Commit; everything else reads them.
type Balance struct {
	LocationID uint  `json:"location_id" gorm:"primaryKey;autoIncrement:false"`
	ItemTypeID uint  `json:"item_type_id" gorm:"primaryKey;autoIncrement:false"`
	Quantity   int64 `json:"quantity" gorm:"not null;default:0"`
}

// TableName specifies the table name
func (Balance) TableName() string {
	return "balances"
}

// BalanceRepository defines the read-only contract over materialized balances.
type BalanceRepository interface {
	// GetQuantity returns the current quantity for a key, 0 when no row
	// exists yet.
	GetQuantity(ctx context.Context, locationID, itemTypeID uint) (int64, error)

	// SumAll returns the system-wide total quantity.
	SumAll(ctx context.Context) (int64, error)

	// SumByLocation returns the total quantity held at one location.
	SumByLocation(ctx context.Context, locationID uint) (int64, error)
}
