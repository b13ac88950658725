package query

import (
	"context"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

// ListLocationsHandler handles list locations query.
type ListLocationsHandler struct {
	repo domain.LocationRepository
}

// NewListLocationsHandler creates a new list locations handler.
func NewListLocationsHandler(repo domain.LocationRepository) *ListLocationsHandler {
	return &ListLocationsHandler{repo: repo}
}

// Handle executes the list locations query.
func (h *ListLocationsHandler) Handle(ctx context.Context) ([]domain.Location, error) {
	return h.repo.FindAllLocations(ctx)
}

// ListItemTypesHandler handles list item types query.
type ListItemTypesHandler struct {
	repo domain.ItemTypeRepository
}

// NewListItemTypesHandler creates a new list item types handler.
func NewListItemTypesHandler(repo domain.ItemTypeRepository) *ListItemTypesHandler {
	return &ListItemTypesHandler{repo: repo}
}

// Handle executes the list item types query.
func (h *ListItemTypesHandler) Handle(ctx context.Context) ([]domain.ItemType, error) {
	return h.repo.FindAllItemTypes(ctx)
}
