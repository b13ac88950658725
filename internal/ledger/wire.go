//go:build wireinject
// +build wireinject

package ledger

import (
	"github.com/google/wire"

	httpDelivery "github.com/garrison/asset-ledger/internal/ledger/delivery/http"
	"github.com/garrison/asset-ledger/internal/ledger/domain"
	"github.com/garrison/asset-ledger/internal/ledger/usecase/command"
	"github.com/garrison/asset-ledger/pkg/cache"
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies.
// The storage backend, event publisher and report cache are constructed in
// main so the same graph serves every driver combination.
func InitializeHTTPHandler(
	repo domain.LedgerRepository,
	publisher command.MovementPublisher,
	reportCache *cache.ReportCache,
	enforceSufficiency bool,
) (*httpDelivery.LedgerHandler, error) {
	wire.Build(
		httpDelivery.NewLedgerHandler,
	)
	return nil, nil
}
