package command

import (
	"context"
	"fmt"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

// CreateLocationCommand represents the command to create a location.
type CreateLocationCommand struct {
	Name    string
	Address string
}

// CreateLocationHandler handles create location command.
type CreateLocationHandler struct {
	repo domain.LocationRepository
}

// NewCreateLocationHandler creates a new create location handler.
func NewCreateLocationHandler(repo domain.LocationRepository) *CreateLocationHandler {
	return &CreateLocationHandler{repo: repo}
}

// Handle executes the create location command.
func (h *CreateLocationHandler) Handle(ctx context.Context, cmd CreateLocationCommand) (*domain.Location, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	location := &domain.Location{
		Name:    cmd.Name,
		Address: cmd.Address,
	}

	if err := h.repo.CreateLocation(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return location, nil
}
