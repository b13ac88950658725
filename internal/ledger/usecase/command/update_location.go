package command

import (
	"context"
	"fmt"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

// UpdateLocationCommand represents the command to update a location's
// descriptive fields.
type UpdateLocationCommand struct {
	ID      uint
	Name    string
	Address string
}

// UpdateLocationHandler handles update location command.
type UpdateLocationHandler struct {
	repo domain.LocationRepository
}

// NewUpdateLocationHandler creates a new update location handler.
func NewUpdateLocationHandler(repo domain.LocationRepository) *UpdateLocationHandler {
	return &UpdateLocationHandler{repo: repo}
}

// Handle executes the update location command.
func (h *UpdateLocationHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) (*domain.Location, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidRequest)
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	location := &domain.Location{
		ID:      cmd.ID,
		Name:    cmd.Name,
		Address: cmd.Address,
	}

	if err := h.repo.UpdateLocation(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	return location, nil
}
