package command

import (
	"context"
	"fmt"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

// CreateItemTypeCommand represents the command to create an item type.
type CreateItemTypeCommand struct {
	Name        string
	Description string
}

// CreateItemTypeHandler handles create item type command.
type CreateItemTypeHandler struct {
	repo domain.ItemTypeRepository
}

// NewCreateItemTypeHandler creates a new create item type handler.
func NewCreateItemTypeHandler(repo domain.ItemTypeRepository) *CreateItemTypeHandler {
	return &CreateItemTypeHandler{repo: repo}
}

// Handle executes the create item type command.
func (h *CreateItemTypeHandler) Handle(ctx context.Context, cmd CreateItemTypeCommand) (*domain.ItemType, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	itemType := &domain.ItemType{
		Name:        cmd.Name,
		Description: cmd.Description,
	}

	if err := h.repo.CreateItemType(ctx, itemType); err != nil {
		return nil, fmt.Errorf("failed to create item type: %w", err)
	}

	return itemType, nil
}
