package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

// PostgresLedgerRepository implements LedgerRepository on a raw database/sql
// connection. Functionally equivalent to the GORM backend; selectable with
// STORAGE_DRIVER=sql.
type PostgresLedgerRepository struct {
	db *sql.DB
}

// NewPostgresLedgerRepository creates a new raw PostgreSQL ledger repository.
func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

// Migrate creates the ledger tables if they do not exist.
func (r *PostgresLedgerRepository) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS locations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS item_types (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS balances (
			location_id BIGINT NOT NULL,
			item_type_id BIGINT NOT NULL,
			quantity BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (location_id, item_type_id)
		)`,
		`CREATE TABLE IF NOT EXISTS movements (
			id SERIAL PRIMARY KEY,
			type TEXT NOT NULL,
			item_type_id BIGINT NOT NULL,
			quantity BIGINT NOT NULL,
			from_location_id BIGINT,
			to_location_id BIGINT,
			recipient TEXT NOT NULL DEFAULT '',
			performed_by BIGINT NOT NULL DEFAULT 0,
			performed_name TEXT NOT NULL DEFAULT '',
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movements_timestamp ON movements (timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_movements_from ON movements (from_location_id)`,
		`CREATE INDEX IF NOT EXISTS idx_movements_to ON movements (to_location_id)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}

// Commit applies the movement's deltas and appends the log entry in one
// transaction, retrying transient serialization failures with bounded
// backoff.
func (r *PostgresLedgerRepository) Commit(ctx context.Context, movement *domain.Movement, enforceSufficiency bool) error {
	deltas := movement.Deltas()
	if len(deltas) == 0 {
		return fmt.Errorf("%w: movement has no balance effect", domain.ErrInvalidRequest)
	}

	var lastErr error
	for attempt := 1; attempt <= maxCommitRetries; attempt++ {
		err := r.commitOnce(ctx, movement, deltas, enforceSufficiency)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrInsufficientInventory) || errors.Is(err, domain.ErrInvalidRequest) {
			return err
		}
		if isPqSerializationFailure(err) {
			lastErr = fmt.Errorf("%w: %v", domain.ErrCommitConflict, err)
			time.Sleep(time.Duration(attempt) * retryBackoffBase)
			continue
		}
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return lastErr
}

func (r *PostgresLedgerRepository) commitOnce(ctx context.Context, movement *domain.Movement, deltas []domain.Delta, enforceSufficiency bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, d := range deltas {
		if enforceSufficiency && d.Quantity < 0 {
			res, err := tx.ExecContext(ctx,
				`UPDATE balances SET quantity = quantity + $1
				 WHERE location_id = $2 AND item_type_id = $3 AND quantity + $1 >= 0`,
				d.Quantity, d.LocationID, d.ItemTypeID,
			)
			if err != nil {
				return fmt.Errorf("applying delta: %w", err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("applying delta: %w", err)
			}
			if affected == 0 {
				return fmt.Errorf("%w: location %d, item type %d",
					domain.ErrInsufficientInventory, d.LocationID, d.ItemTypeID)
			}
			continue
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO balances (location_id, item_type_id, quantity) VALUES ($1, $2, $3)
			 ON CONFLICT (location_id, item_type_id)
			 DO UPDATE SET quantity = balances.quantity + excluded.quantity`,
			d.LocationID, d.ItemTypeID, d.Quantity,
		)
		if err != nil {
			return fmt.Errorf("applying delta: %w", err)
		}
	}

	movement.Timestamp = time.Now().UTC()
	err = tx.QueryRowContext(ctx,
		`INSERT INTO movements (type, item_type_id, quantity, from_location_id, to_location_id, recipient, performed_by, performed_name, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		movement.Type, movement.ItemTypeID, movement.Quantity,
		movement.FromLocationID, movement.ToLocationID,
		movement.Recipient, movement.PerformedBy, movement.PerformedName,
		movement.Timestamp,
	).Scan(&movement.ID)
	if err != nil {
		return fmt.Errorf("appending movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing movement: %w", err)
	}
	return nil
}

func isPqSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

const movementColumns = `id, type, item_type_id, quantity, from_location_id, to_location_id, recipient, performed_by, performed_name, timestamp`

func scanMovements(rows *sql.Rows) ([]domain.Movement, error) {
	defer rows.Close()
	movements := []domain.Movement{}
	for rows.Next() {
		var m domain.Movement
		err := rows.Scan(
			&m.ID, &m.Type, &m.ItemTypeID, &m.Quantity,
			&m.FromLocationID, &m.ToLocationID,
			&m.Recipient, &m.PerformedBy, &m.PerformedName, &m.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// FindAll returns the full movement log, newest first.
func (r *PostgresLedgerRepository) FindAll(ctx context.Context) ([]domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM movements ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return scanMovements(rows)
}

// FindByLocation returns the movements touching a location, newest first.
func (r *PostgresLedgerRepository) FindByLocation(ctx context.Context, locationID uint) ([]domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM movements
		 WHERE from_location_id = $1 OR to_location_id = $1
		 ORDER BY timestamp DESC, id DESC`, locationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return scanMovements(rows)
}

// GetQuantity returns the balance for a key, zero when no row exists.
func (r *PostgresLedgerRepository) GetQuantity(ctx context.Context, locationID, itemTypeID uint) (int64, error) {
	var quantity int64
	err := r.db.QueryRowContext(ctx,
		`SELECT quantity FROM balances WHERE location_id = $1 AND item_type_id = $2`,
		locationID, itemTypeID,
	).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return quantity, nil
}

// SumAll returns the system-wide total quantity.
func (r *PostgresLedgerRepository) SumAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM balances`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return total, nil
}

// SumByLocation returns the total quantity held at one location.
func (r *PostgresLedgerRepository) SumByLocation(ctx context.Context, locationID uint) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM balances WHERE location_id = $1`,
		locationID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return total, nil
}

// CreateLocation inserts a new location.
func (r *PostgresLedgerRepository) CreateLocation(ctx context.Context, location *domain.Location) error {
	location.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO locations (name, address, created_at) VALUES ($1, $2, $3) RETURNING id`,
		location.Name, location.Address, location.CreatedAt,
	).Scan(&location.ID)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// UpdateLocation updates the descriptive fields of a location.
func (r *PostgresLedgerRepository) UpdateLocation(ctx context.Context, location *domain.Location) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE locations SET name = $1, address = $2 WHERE id = $3`,
		location.Name, location.Address, location.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: location %d", domain.ErrNotFound, location.ID)
	}
	return nil
}

// FindLocationByID retrieves a location by id.
func (r *PostgresLedgerRepository) FindLocationByID(ctx context.Context, id uint) (*domain.Location, error) {
	location := &domain.Location{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, address, created_at FROM locations WHERE id = $1`, id,
	).Scan(&location.ID, &location.Name, &location.Address, &location.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: location %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return location, nil
}

// FindAllLocations returns all locations ordered by name.
func (r *PostgresLedgerRepository) FindAllLocations(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, address, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	locations := []domain.Location{}
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// CreateItemType inserts a new item type.
func (r *PostgresLedgerRepository) CreateItemType(ctx context.Context, itemType *domain.ItemType) error {
	itemType.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO item_types (name, description, created_at) VALUES ($1, $2, $3) RETURNING id`,
		itemType.Name, itemType.Description, itemType.CreatedAt,
	).Scan(&itemType.ID)
	if err != nil {
		return fmt.Errorf("failed to create item type: %w", err)
	}
	return nil
}

// UpdateItemType updates the descriptive fields of an item type.
func (r *PostgresLedgerRepository) UpdateItemType(ctx context.Context, itemType *domain.ItemType) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE item_types SET name = $1, description = $2 WHERE id = $3`,
		itemType.Name, itemType.Description, itemType.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item type: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update item type: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: item type %d", domain.ErrNotFound, itemType.ID)
	}
	return nil
}

// FindItemTypeByID retrieves an item type by id.
func (r *PostgresLedgerRepository) FindItemTypeByID(ctx context.Context, id uint) (*domain.ItemType, error) {
	itemType := &domain.ItemType{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM item_types WHERE id = $1`, id,
	).Scan(&itemType.ID, &itemType.Name, &itemType.Description, &itemType.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item type %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return itemType, nil
}

// FindAllItemTypes returns all item types ordered by name.
func (r *PostgresLedgerRepository) FindAllItemTypes(ctx context.Context) ([]domain.ItemType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM item_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	itemTypes := []domain.ItemType{}
	for rows.Next() {
		var t domain.ItemType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item type: %w", err)
		}
		itemTypes = append(itemTypes, t)
	}
	return itemTypes, rows.Err()
}
