package command

import (
	"context"
	"fmt"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

// UpdateItemTypeCommand represents the command to update an item type's
// descriptive fields.
type UpdateItemTypeCommand struct {
	ID          uint
	Name        string
	Description string
}

// UpdateItemTypeHandler handles update item type command.
type UpdateItemTypeHandler struct {
	repo domain.ItemTypeRepository
}

// NewUpdateItemTypeHandler creates a new update item type handler.
func NewUpdateItemTypeHandler(repo domain.ItemTypeRepository) *UpdateItemTypeHandler {
	return &UpdateItemTypeHandler{repo: repo}
}

// Handle executes the update item type command.
func (h *UpdateItemTypeHandler) Handle(ctx context.Context, cmd UpdateItemTypeCommand) (*domain.ItemType, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidRequest)
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	itemType := &domain.ItemType{
		ID:          cmd.ID,
		Name:        cmd.Name,
		Description: cmd.Description,
	}

	if err := h.repo.UpdateItemType(ctx, itemType); err != nil {
		return nil, fmt.Errorf("failed to update item type: %w", err)
	}

	return itemType, nil
}
