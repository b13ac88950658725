package domain

import (
	"context"
	"time"
)

// Location is a site that holds stock. Descriptive fields may change, but a
// location is never deleted while movements reference it.
type Location struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Location) TableName() string {
	return "locations"
}

// ItemType is a category of asset tracked by the ledger.
type ItemType struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name
func (ItemType) TableName() string {
	return "item_types"
}

// LocationRepository defines the contract for location data access. Updates
// touch descriptive fields only; identity is fixed once movements reference
// the location.
type LocationRepository interface {
	CreateLocation(ctx context.Context, location *Location) error
	UpdateLocation(ctx context.Context, location *Location) error
	FindLocationByID(ctx context.Context, id uint) (*Location, error)
	FindAllLocations(ctx context.Context) ([]Location, error)
}

// ItemTypeRepository defines the contract for item type data access.
type ItemTypeRepository interface {
	CreateItemType(ctx context.Context, itemType *ItemType) error
	UpdateItemType(ctx context.Context, itemType *ItemType) error
	FindItemTypeByID(ctx context.Context, id uint) (*ItemType, error)
	FindAllItemTypes(ctx context.Context) ([]ItemType, error)
}
