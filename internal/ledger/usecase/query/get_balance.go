package query

import (
	"context"
	"fmt"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

// GetBalanceQuery represents the query for one (location, item type) balance.
type GetBalanceQuery struct {
	LocationID uint
	ItemTypeID uint
}

// GetBalanceHandler handles get balance query.
type GetBalanceHandler struct {
	repo domain.BalanceRepository
}

// NewGetBalanceHandler creates a new get balance handler.
func NewGetBalanceHandler(repo domain.BalanceRepository) *GetBalanceHandler {
	return &GetBalanceHandler{repo: repo}
}

// Handle executes the get balance query. Keys never touched by a movement
// report zero.
func (h *GetBalanceHandler) Handle(ctx context.Context, q GetBalanceQuery) (int64, error) {
	if q.LocationID == 0 {
		return 0, fmt.Errorf("%w: location_id is required", domain.ErrInvalidRequest)
	}
	if q.ItemTypeID == 0 {
		return 0, fmt.Errorf("%w: item_type_id is required", domain.ErrInvalidRequest)
	}
	return h.repo.GetQuantity(ctx, q.LocationID, q.ItemTypeID)
}
