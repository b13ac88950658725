package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

const (
	// maxCommitRetries bounds the internal retry loop on transient
	// serialization conflicts before ErrCommitConflict escapes.
	maxCommitRetries = 5

	// retryBackoffBase is the base delay between commit retries; attempt n
	// waits n times this long.
	retryBackoffBase = 10 * time.Millisecond
)

// GormLedgerRepository is the primary storage backend. It implements the
// movement log, the materialized balances and the location/item type catalog
// on PostgreSQL via GORM.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GORM-backed ledger repository.
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// AutoMigrate creates or updates the ledger tables.
func (r *GormLedgerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Location{},
		&domain.ItemType{},
		&domain.Balance{},
		&domain.Movement{},
	)
}

// Commit applies every balance delta of the movement and appends the log
// entry inside a single database transaction. Deltas are expressed as
// commutative quantity additions, never read-then-overwrite, so concurrent
// commits against the same key serialize at the row and both survive.
// Transient conflicts are retried with bounded backoff.
func (r *GormLedgerRepository) Commit(ctx context.Context, movement *domain.Movement, enforceSufficiency bool) error {
	deltas := movement.Deltas()
	if len(deltas) == 0 {
		return fmt.Errorf("%w: movement has no balance effect", domain.ErrInvalidRequest)
	}

	var lastErr error
	for attempt := 1; attempt <= maxCommitRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, d := range deltas {
				if err := applyDelta(tx, d, enforceSufficiency); err != nil {
					return err
				}
			}
			movement.Timestamp = time.Now().UTC()
			if err := tx.Create(movement).Error; err != nil {
				return fmt.Errorf("appending movement: %w", err)
			}
			return nil
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrInsufficientInventory) || errors.Is(err, domain.ErrInvalidRequest) {
			return err
		}
		if isSerializationFailure(err) {
			lastErr = fmt.Errorf("%w: %v", domain.ErrCommitConflict, err)
			movement.ID = 0 // the insert may have been assigned before rollback
			time.Sleep(time.Duration(attempt) * retryBackoffBase)
			continue
		}
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return lastErr
}

// applyDelta adds a signed quantity to one balance row. Positive deltas (and
// all deltas when the sufficiency policy is off) use an upsert so the row is
// created lazily. Negative deltas under the sufficiency policy use a
// conditional update that only fires when enough stock remains.
func applyDelta(tx *gorm.DB, d domain.Delta, enforceSufficiency bool) error {
	if enforceSufficiency && d.Quantity < 0 {
		res := tx.Model(&domain.Balance{}).
			Where("location_id = ? AND item_type_id = ? AND quantity + ? >= 0",
				d.LocationID, d.ItemTypeID, d.Quantity).
			Update("quantity", gorm.Expr("quantity + ?", d.Quantity))
		if res.Error != nil {
			return fmt.Errorf("applying delta: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Either no row (implicit zero balance) or not enough stock.
			return fmt.Errorf("%w: location %d, item type %d",
				domain.ErrInsufficientInventory, d.LocationID, d.ItemTypeID)
		}
		return nil
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "location_id"}, {Name: "item_type_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("balances.quantity + excluded.quantity"),
		}),
	}).Create(&domain.Balance{
		LocationID: d.LocationID,
		ItemTypeID: d.ItemTypeID,
		Quantity:   d.Quantity,
	}).Error
	if err != nil {
		return fmt.Errorf("applying delta: %w", err)
	}
	return nil
}

// isSerializationFailure detects PostgreSQL serialization and deadlock
// SQLSTATEs (40001, 40P01) that are safe to retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// FindAll returns the full movement log, newest first.
func (r *GormLedgerRepository) FindAll(ctx context.Context) ([]domain.Movement, error) {
	var movements []domain.Movement
	err := r.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return movements, nil
}

// FindByLocation returns movements touching the location as source or
// destination, newest first.
func (r *GormLedgerRepository) FindByLocation(ctx context.Context, locationID uint) ([]domain.Movement, error) {
	var movements []domain.Movement
	err := r.db.WithContext(ctx).
		Where("from_location_id = ? OR to_location_id = ?", locationID, locationID).
		Order("timestamp DESC, id DESC").
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return movements, nil
}

// GetQuantity returns the current balance for a key, zero if the row was
// never created.
func (r *GormLedgerRepository) GetQuantity(ctx context.Context, locationID, itemTypeID uint) (int64, error) {
	var balance domain.Balance
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND item_type_id = ?", locationID, itemTypeID).
		First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return balance.Quantity, nil
}

// SumAll returns the system-wide total quantity.
func (r *GormLedgerRepository) SumAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Balance{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return total, nil
}

// SumByLocation returns the total quantity held at one location.
func (r *GormLedgerRepository) SumByLocation(ctx context.Context, locationID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Balance{}).
		Where("location_id = ?", locationID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return total, nil
}

// CreateLocation inserts a new location.
func (r *GormLedgerRepository) CreateLocation(ctx context.Context, location *domain.Location) error {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// UpdateLocation updates the descriptive fields of a location.
func (r *GormLedgerRepository) UpdateLocation(ctx context.Context, location *domain.Location) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Location{}).
		Where("id = ?", location.ID).
		Updates(map[string]interface{}{
			"name":    location.Name,
			"address": location.Address,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update location: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: location %d", domain.ErrNotFound, location.ID)
	}
	return nil
}

// FindLocationByID retrieves a location by id.
func (r *GormLedgerRepository) FindLocationByID(ctx context.Context, id uint) (*domain.Location, error) {
	var location domain.Location
	err := r.db.WithContext(ctx).First(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: location %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return &location, nil
}

// FindAllLocations returns all locations ordered by name.
func (r *GormLedgerRepository) FindAllLocations(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.WithContext(ctx).Order("name").Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return locations, nil
}

// CreateItemType inserts a new item type.
func (r *GormLedgerRepository) CreateItemType(ctx context.Context, itemType *domain.ItemType) error {
	if err := r.db.WithContext(ctx).Create(itemType).Error; err != nil {
		return fmt.Errorf("failed to create item type: %w", err)
	}
	return nil
}

// UpdateItemType updates the descriptive fields of an item type.
func (r *GormLedgerRepository) UpdateItemType(ctx context.Context, itemType *domain.ItemType) error {
	res := r.db.WithContext(ctx).
		Model(&domain.ItemType{}).
		Where("id = ?", itemType.ID).
		Updates(map[string]interface{}{
			"name":        itemType.Name,
			"description": itemType.Description,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update item type: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: item type %d", domain.ErrNotFound, itemType.ID)
	}
	return nil
}

// FindItemTypeByID retrieves an item type by id.
func (r *GormLedgerRepository) FindItemTypeByID(ctx context.Context, id uint) (*domain.ItemType, error) {
	var itemType domain.ItemType
	err := r.db.WithContext(ctx).First(&itemType, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: item type %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return &itemType, nil
}

// FindAllItemTypes returns all item types ordered by name.
func (r *GormLedgerRepository) FindAllItemTypes(ctx context.Context) ([]domain.ItemType, error) {
	var itemTypes []domain.ItemType
	err := r.db.WithContext(ctx).Order("name").Find(&itemTypes).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return itemTypes, nil
}
