package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
	"github.com/garrison/asset-ledger/pkg/cache"
	"github.com/garrison/asset-ledger/pkg/logger"
)

// DashboardCachePrefix is the key prefix for cached dashboard reports,
// invalidated on every commit.
const DashboardCachePrefix = "dashboard:"

// MovementPublisher publishes committed movements to downstream consumers.
type MovementPublisher interface {
	PublishMovementCommitted(ctx context.Context, movement *domain.Movement) error
}

// SubmitMovementCommand represents a request to record a ledger movement.
type SubmitMovementCommand struct {
	Actor          domain.Actor
	Type           domain.MovementType
	ItemTypeID     uint
	Quantity       int64
	FromLocationID *uint
	ToLocationID   *uint
	Recipient      string
}

// SubmitMovementHandler is the transaction processor: it validates a proposed
// movement, resolves its balance effect and commits log append plus balance
// deltas as one atomic unit.
type SubmitMovementHandler struct {
	repo               domain.LedgerRepository
	publisher          MovementPublisher
	reportCache        *cache.ReportCache
	enforceSufficiency bool
}

// NewSubmitMovementHandler creates a new submit movement handler. publisher
// and reportCache may be nil. When enforceSufficiency is set, movements that
// would drive a balance negative are rejected before any mutation.
func NewSubmitMovementHandler(repo domain.LedgerRepository, publisher MovementPublisher, reportCache *cache.ReportCache, enforceSufficiency bool) *SubmitMovementHandler {
	return &SubmitMovementHandler{
		repo:               repo,
		publisher:          publisher,
		reportCache:        reportCache,
		enforceSufficiency: enforceSufficiency,
	}
}

// Handle executes the submit movement command.
func (h *SubmitMovementHandler) Handle(ctx context.Context, cmd SubmitMovementCommand) (*domain.Movement, error) {
	movement := &domain.Movement{
		Type:           cmd.Type,
		ItemTypeID:     cmd.ItemTypeID,
		Quantity:       cmd.Quantity,
		FromLocationID: cmd.FromLocationID,
		ToLocationID:   cmd.ToLocationID,
		Recipient:      cmd.Recipient,
		PerformedBy:    cmd.Actor.ID,
		PerformedName:  cmd.Actor.Username,
	}

	if err := movement.Validate(); err != nil {
		return nil, err
	}
	if err := h.checkReferences(ctx, movement); err != nil {
		return nil, err
	}

	if err := h.repo.Commit(ctx, movement, h.enforceSufficiency); err != nil {
		return nil, err
	}

	h.reportCache.InvalidatePrefix(ctx, DashboardCachePrefix)

	if h.publisher != nil {
		if err := h.publisher.PublishMovementCommitted(ctx, movement); err != nil {
			// The commit already succeeded; event delivery is best effort.
			logger.Warn(ctx).
				Err(err).
				Uint("movement_id", movement.ID).
				Msg("Failed to publish committed movement")
		}
	}

	logger.Info(ctx).
		Uint("movement_id", movement.ID).
		Str("type", string(movement.Type)).
		Int64("quantity", movement.Quantity).
		Uint("performed_by", movement.PerformedBy).
		Msg("Movement committed")

	return movement, nil
}

// checkReferences verifies the referenced item type and locations exist, so
// a typo fails as ErrInvalidRequest instead of dangling in the log.
func (h *SubmitMovementHandler) checkReferences(ctx context.Context, m *domain.Movement) error {
	if _, err := h.repo.FindItemTypeByID(ctx, m.ItemTypeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown item type %d", domain.ErrInvalidRequest, m.ItemTypeID)
		}
		return err
	}
	for _, id := range []*uint{m.FromLocationID, m.ToLocationID} {
		if id == nil {
			continue
		}
		if _, err := h.repo.FindLocationByID(ctx, *id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: unknown location %d", domain.ErrInvalidRequest, *id)
			}
			return err
		}
	}
	return nil
}
