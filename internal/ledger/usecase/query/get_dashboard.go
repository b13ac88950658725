package query

import (
	"context"
	"fmt"
	"time"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
	"github.com/garrison/asset-ledger/pkg/cache"
)

const recentMovementLimit = 5

// DashboardReport is the derived metrics view for one actor's scope. Opening
// balance is reconstructed algebraically from the closing balance and the
// flow totals, not read from a stored snapshot.
type DashboardReport struct {
	OpeningBalance  int64            `json:"opening_balance"`
	Purchases       int64            `json:"purchases"`
	TransferIn      int64            `json:"transfer_in"`
	TransferOut     int64            `json:"transfer_out"`
	Expended        int64            `json:"expended"`
	NetMovement     int64            `json:"net_movement"`
	ClosingBalance  int64            `json:"closing_balance"`
	RecentMovements []RecentMovement `json:"recent_movements"`
}

// RecentMovement is a movement serialized with denormalized names for
// display.
type RecentMovement struct {
	ID           uint                `json:"id"`
	Type         domain.MovementType `json:"type"`
	ItemType     string              `json:"item_type"`
	Quantity     int64               `json:"quantity"`
	FromLocation string              `json:"from_location,omitempty"`
	ToLocation   string              `json:"to_location,omitempty"`
	Recipient    string              `json:"recipient,omitempty"`
	PerformedBy  string              `json:"performed_by,omitempty"`
	Timestamp    time.Time           `json:"timestamp"`
}

// GetDashboardQuery represents the query for an actor's dashboard report.
type GetDashboardQuery struct {
	Actor domain.Actor
}

// GetDashboardHandler is the metrics engine. It folds the location-scoped
// movement set and the current balance snapshot into a report. The scope is
// the location filter only: expenditures count here even for roles whose
// movement listing hides them.
type GetDashboardHandler struct {
	repo        domain.LedgerRepository
	reportCache *cache.ReportCache
}

// NewGetDashboardHandler creates a new dashboard handler. reportCache may be
// nil.
func NewGetDashboardHandler(repo domain.LedgerRepository, reportCache *cache.ReportCache) *GetDashboardHandler {
	return &GetDashboardHandler{repo: repo, reportCache: reportCache}
}

// Handle executes the dashboard query.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardReport, error) {
	if !q.Actor.Role.Valid() {
		return &DashboardReport{RecentMovements: []RecentMovement{}}, nil
	}

	scope := q.Actor.MetricsScope()
	cacheKey := dashboardCacheKey(scope)

	var cached DashboardReport
	if h.reportCache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	var (
		closing   int64
		movements []domain.Movement
		err       error
	)
	if scope == nil {
		closing, err = h.repo.SumAll(ctx)
		if err != nil {
			return nil, err
		}
		movements, err = h.repo.FindAll(ctx)
	} else {
		closing, err = h.repo.SumByLocation(ctx, *scope)
		if err != nil {
			return nil, err
		}
		movements, err = h.repo.FindByLocation(ctx, *scope)
	}
	if err != nil {
		return nil, err
	}

	report := &DashboardReport{ClosingBalance: closing}
	for i := range movements {
		m := &movements[i]
		switch m.Type {
		case domain.MovementPurchase:
			report.Purchases += m.Quantity
		case domain.MovementExpenditure:
			report.Expended += m.Quantity
		case domain.MovementTransfer:
			// Transfers are internal and net to zero at system scope.
			if scope == nil {
				continue
			}
			if m.ToLocationID != nil && *m.ToLocationID == *scope {
				report.TransferIn += m.Quantity
			}
			if m.FromLocationID != nil && *m.FromLocationID == *scope {
				report.TransferOut += m.Quantity
			}
		}
	}

	// Opening balance inverts the forward relation. At system scope net
	// movement already nets out expenditure, so the inverse differs.
	if scope == nil {
		report.NetMovement = report.Purchases - report.Expended
		report.OpeningBalance = report.ClosingBalance - report.NetMovement
	} else {
		report.NetMovement = report.Purchases + report.TransferIn - report.TransferOut
		report.OpeningBalance = report.ClosingBalance - report.NetMovement + report.Expended
	}

	recent, err := h.denormalize(ctx, movements)
	if err != nil {
		return nil, err
	}
	report.RecentMovements = recent

	h.reportCache.Set(ctx, cacheKey, report)
	return report, nil
}

// denormalize maps the most recent scoped movements to their display form
// with location and item type names resolved.
func (h *GetDashboardHandler) denormalize(ctx context.Context, movements []domain.Movement) ([]RecentMovement, error) {
	if len(movements) > recentMovementLimit {
		movements = movements[:recentMovementLimit]
	}

	locations, err := h.repo.FindAllLocations(ctx)
	if err != nil {
		return nil, err
	}
	itemTypes, err := h.repo.FindAllItemTypes(ctx)
	if err != nil {
		return nil, err
	}

	locationNames := make(map[uint]string, len(locations))
	for _, l := range locations {
		locationNames[l.ID] = l.Name
	}
	itemTypeNames := make(map[uint]string, len(itemTypes))
	for _, t := range itemTypes {
		itemTypeNames[t.ID] = t.Name
	}

	recent := make([]RecentMovement, 0, len(movements))
	for _, m := range movements {
		r := RecentMovement{
			ID:          m.ID,
			Type:        m.Type,
			ItemType:    itemTypeNames[m.ItemTypeID],
			Quantity:    m.Quantity,
			Recipient:   m.Recipient,
			PerformedBy: m.PerformedName,
			Timestamp:   m.Timestamp,
		}
		if m.FromLocationID != nil {
			r.FromLocation = locationNames[*m.FromLocationID]
		}
		if m.ToLocationID != nil {
			r.ToLocation = locationNames[*m.ToLocationID]
		}
		recent = append(recent, r)
	}
	return recent, nil
}

func dashboardCacheKey(scope *uint) string {
	if scope == nil {
		return "dashboard:all"
	}
	return fmt.Sprintf("dashboard:location:%d", *scope)
}
