package query

import (
	"context"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

// ListMovementsQuery represents the query for an actor's movement listing.
type ListMovementsQuery struct {
	Actor domain.Actor
}

// ListMovementsHandler is the visibility scoper: an order-preserving filter
// of the full log by actor role and home location.
type ListMovementsHandler struct {
	repo domain.MovementRepository
}

// NewListMovementsHandler creates a new list movements handler.
func NewListMovementsHandler(repo domain.MovementRepository) *ListMovementsHandler {
	return &ListMovementsHandler{repo: repo}
}

// Handle executes the list movements query. The repository returns the log
// newest first; filtering keeps that order. An unrecognized role sees an
// empty sequence.
func (h *ListMovementsHandler) Handle(ctx context.Context, q ListMovementsQuery) ([]domain.Movement, error) {
	if !q.Actor.Role.Valid() {
		return []domain.Movement{}, nil
	}

	movements, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if q.Actor.IsAdmin() {
		return movements, nil
	}

	scoped := make([]domain.Movement, 0, len(movements))
	for i := range movements {
		if q.Actor.CanSee(&movements[i]) {
			scoped = append(scoped, movements[i])
		}
	}
	return scoped, nil
}
