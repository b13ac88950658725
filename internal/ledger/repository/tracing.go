package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

var tracer = otel.Tracer("ledger-repository")

// TracingLedgerRepository wraps any LedgerRepository with tracing spans on the
// hot paths of the commit protocol and the log reads.
type TracingLedgerRepository struct {
	domain.LedgerRepository
}

// NewTracingLedgerRepository creates a new repository with tracing.
func NewTracingLedgerRepository(inner domain.LedgerRepository) *TracingLedgerRepository {
	return &TracingLedgerRepository{LedgerRepository: inner}
}

// Commit with tracing
func (r *TracingLedgerRepository) Commit(ctx context.Context, movement *domain.Movement, enforceSufficiency bool) error {
	ctx, span := tracer.Start(ctx, "repository.Commit",
		trace.WithAttributes(
			attribute.String("movement.type", string(movement.Type)),
			attribute.Int("movement.item_type_id", int(movement.ItemTypeID)),
			attribute.Int64("movement.quantity", movement.Quantity),
			attribute.Bool("policy.enforce_sufficiency", enforceSufficiency),
		),
	)
	defer span.End()

	err := r.LedgerRepository.Commit(ctx, movement, enforceSufficiency)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("movement.id", int(movement.ID)))
	return nil
}

// FindAll with tracing
func (r *TracingLedgerRepository) FindAll(ctx context.Context) ([]domain.Movement, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll")
	defer span.End()

	movements, err := r.LedgerRepository.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(movements)))
	return movements, nil
}

// FindByLocation with tracing
func (r *TracingLedgerRepository) FindByLocation(ctx context.Context, locationID uint) ([]domain.Movement, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByLocation",
		trace.WithAttributes(
			attribute.Int("location.id", int(locationID)),
		),
	)
	defer span.End()

	movements, err := r.LedgerRepository.FindByLocation(ctx, locationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(movements)))
	return movements, nil
}

// GetQuantity with tracing
func (r *TracingLedgerRepository) GetQuantity(ctx context.Context, locationID, itemTypeID uint) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.GetQuantity",
		trace.WithAttributes(
			attribute.Int("location.id", int(locationID)),
			attribute.Int("item_type.id", int(itemTypeID)),
		),
	)
	defer span.End()

	quantity, err := r.LedgerRepository.GetQuantity(ctx, locationID, itemTypeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("balance.quantity", quantity))
	return quantity, nil
}

// SumAll with tracing
func (r *TracingLedgerRepository) SumAll(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.SumAll")
	defer span.End()

	total, err := r.LedgerRepository.SumAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("balance.total", total))
	return total, nil
}

// SumByLocation with tracing
func (r *TracingLedgerRepository) SumByLocation(ctx context.Context, locationID uint) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.SumByLocation",
		trace.WithAttributes(
			attribute.Int("location.id", int(locationID)),
		),
	)
	defer span.End()

	total, err := r.LedgerRepository.SumByLocation(ctx, locationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("balance.total", total))
	return total, nil
}
