package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

type balanceKey struct {
	locationID uint
	itemTypeID uint
}

// MemoryLedgerRepository is an in-memory backend with the same atomicity
// guarantees as the GORM implementation: a commit either applies all of its
// deltas and the log append, or nothing. Used by tests and local development.
type MemoryLedgerRepository struct {
	mu        sync.Mutex
	balances  map[balanceKey]int64
	movements []domain.Movement
	locations map[uint]domain.Location
	itemTypes map[uint]domain.ItemType

	nextMovementID uint
	nextLocationID uint
	nextItemTypeID uint
	lastTimestamp  time.Time
}

// NewMemoryLedgerRepository creates an empty in-memory ledger repository.
func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{
		balances:  make(map[balanceKey]int64),
		locations: make(map[uint]domain.Location),
		itemTypes: make(map[uint]domain.ItemType),
	}
}

// Commit applies the movement under the store lock. The sufficiency check
// runs against all deltas before any of them is applied, so a rejected
// commit leaves balances and the log untouched.
func (r *MemoryLedgerRepository) Commit(ctx context.Context, movement *domain.Movement, enforceSufficiency bool) error {
	deltas := movement.Deltas()
	if len(deltas) == 0 {
		return fmt.Errorf("%w: movement has no balance effect", domain.ErrInvalidRequest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if enforceSufficiency {
		for _, d := range deltas {
			if d.Quantity >= 0 {
				continue
			}
			key := balanceKey{d.LocationID, d.ItemTypeID}
			if r.balances[key]+d.Quantity < 0 {
				return fmt.Errorf("%w: location %d, item type %d",
					domain.ErrInsufficientInventory, d.LocationID, d.ItemTypeID)
			}
		}
	}

	for _, d := range deltas {
		r.balances[balanceKey{d.LocationID, d.ItemTypeID}] += d.Quantity
	}

	r.nextMovementID++
	movement.ID = r.nextMovementID
	// Commit timestamps are monotonically non-decreasing.
	now := time.Now().UTC()
	if now.Before(r.lastTimestamp) {
		now = r.lastTimestamp
	}
	r.lastTimestamp = now
	movement.Timestamp = now

	r.movements = append(r.movements, *movement)
	return nil
}

// FindAll returns the full log, newest first.
func (r *MemoryLedgerRepository) FindAll(ctx context.Context) ([]domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Movement, len(r.movements))
	copy(out, r.movements)
	sortNewestFirst(out)
	return out, nil
}

// FindByLocation returns the movements touching a location, newest first.
func (r *MemoryLedgerRepository) FindByLocation(ctx context.Context, locationID uint) ([]domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Movement
	for _, m := range r.movements {
		if m.TouchesLocation(locationID) {
			out = append(out, m)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(movements []domain.Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if movements[i].Timestamp.Equal(movements[j].Timestamp) {
			return movements[i].ID > movements[j].ID
		}
		return movements[i].Timestamp.After(movements[j].Timestamp)
	})
}

// GetQuantity returns the balance for a key, zero when untouched.
func (r *MemoryLedgerRepository) GetQuantity(ctx context.Context, locationID, itemTypeID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[balanceKey{locationID, itemTypeID}], nil
}

// SumAll returns the system-wide total quantity.
func (r *MemoryLedgerRepository) SumAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, q := range r.balances {
		total += q
	}
	return total, nil
}

// SumByLocation returns the total quantity held at one location.
func (r *MemoryLedgerRepository) SumByLocation(ctx context.Context, locationID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for key, q := range r.balances {
		if key.locationID == locationID {
			total += q
		}
	}
	return total, nil
}

// CreateLocation inserts a new location, enforcing the unique name.
func (r *MemoryLedgerRepository) CreateLocation(ctx context.Context, location *domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.locations {
		if l.Name == location.Name {
			return fmt.Errorf("%w: location name %q already exists", domain.ErrInvalidRequest, location.Name)
		}
	}
	r.nextLocationID++
	location.ID = r.nextLocationID
	location.CreatedAt = time.Now().UTC()
	r.locations[location.ID] = *location
	return nil
}

// UpdateLocation updates the descriptive fields of a location, keeping the
// unique name constraint.
func (r *MemoryLedgerRepository) UpdateLocation(ctx context.Context, location *domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.locations[location.ID]
	if !ok {
		return fmt.Errorf("%w: location %d", domain.ErrNotFound, location.ID)
	}
	for id, l := range r.locations {
		if id != location.ID && l.Name == location.Name {
			return fmt.Errorf("%w: location name %q already exists", domain.ErrInvalidRequest, location.Name)
		}
	}
	existing.Name = location.Name
	existing.Address = location.Address
	r.locations[location.ID] = existing
	location.CreatedAt = existing.CreatedAt
	return nil
}

// FindLocationByID retrieves a location by id.
func (r *MemoryLedgerRepository) FindLocationByID(ctx context.Context, id uint) (*domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locations[id]
	if !ok {
		return nil, fmt.Errorf("%w: location %d", domain.ErrNotFound, id)
	}
	return &l, nil
}

// FindAllLocations returns all locations ordered by name.
func (r *MemoryLedgerRepository) FindAllLocations(ctx context.Context) ([]domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Location, 0, len(r.locations))
	for _, l := range r.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateItemType inserts a new item type, enforcing the unique name.
func (r *MemoryLedgerRepository) CreateItemType(ctx context.Context, itemType *domain.ItemType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.itemTypes {
		if t.Name == itemType.Name {
			return fmt.Errorf("%w: item type name %q already exists", domain.ErrInvalidRequest, itemType.Name)
		}
	}
	r.nextItemTypeID++
	itemType.ID = r.nextItemTypeID
	itemType.CreatedAt = time.Now().UTC()
	r.itemTypes[itemType.ID] = *itemType
	return nil
}

// UpdateItemType updates the descriptive fields of an item type, keeping the
// unique name constraint.
func (r *MemoryLedgerRepository) UpdateItemType(ctx context.Context, itemType *domain.ItemType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.itemTypes[itemType.ID]
	if !ok {
		return fmt.Errorf("%w: item type %d", domain.ErrNotFound, itemType.ID)
	}
	for id, t := range r.itemTypes {
		if id != itemType.ID && t.Name == itemType.Name {
			return fmt.Errorf("%w: item type name %q already exists", domain.ErrInvalidRequest, itemType.Name)
		}
	}
	existing.Name = itemType.Name
	existing.Description = itemType.Description
	r.itemTypes[itemType.ID] = existing
	itemType.CreatedAt = existing.CreatedAt
	return nil
}

// FindItemTypeByID retrieves an item type by id.
func (r *MemoryLedgerRepository) FindItemTypeByID(ctx context.Context, id uint) (*domain.ItemType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.itemTypes[id]
	if !ok {
		return nil, fmt.Errorf("%w: item type %d", domain.ErrNotFound, id)
	}
	return &t, nil
}

// FindAllItemTypes returns all item types ordered by name.
func (r *MemoryLedgerRepository) FindAllItemTypes(ctx context.Context) ([]domain.ItemType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ItemType, 0, len(r.itemTypes))
	for _, t := range r.itemTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
