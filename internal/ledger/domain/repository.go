package domain

// LedgerRepository is the full storage contract of the ledger: the append-only
// movement log, the balances it materializes, and the location/item type
// catalog. Both the GORM and the raw SQL backends implement it.
type LedgerRepository interface {
	MovementRepository
	BalanceRepository
	LocationRepository
	ItemTypeRepository
}
