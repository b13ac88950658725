package query

import (
	"context"
	"testing"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
	"github.com/garrison/asset-ledger/internal/ledger/repository"
)

// seedFlows commits the canonical flow scenario: purchase 100 into Alpha,
// transfer 30 Alpha to Bravo, expend 20 from Alpha.
func seedFlows(t *testing.T) (*repository.MemoryLedgerRepository, uint, uint) {
	t.Helper()
	repo := repository.NewMemoryLedgerRepository()
	ctx := context.Background()

	locA := &domain.Location{Name: "Base Alpha"}
	locB := &domain.Location{Name: "Base Bravo"}
	if err := repo.CreateLocation(ctx, locA); err != nil {
		t.Fatalf("create location: %v", err)
	}
	if err := repo.CreateLocation(ctx, locB); err != nil {
		t.Fatalf("create location: %v", err)
	}
	rifle := &domain.ItemType{Name: "Rifle"}
	if err := repo.CreateItemType(ctx, rifle); err != nil {
		t.Fatalf("create item type: %v", err)
	}

	movements := []domain.Movement{
		{Type: domain.MovementPurchase, ItemTypeID: rifle.ID, Quantity: 100, ToLocationID: &locA.ID},
		{Type: domain.MovementTransfer, ItemTypeID: rifle.ID, Quantity: 30, FromLocationID: &locA.ID, ToLocationID: &locB.ID},
		{Type: domain.MovementExpenditure, ItemTypeID: rifle.ID, Quantity: 20, FromLocationID: &locA.ID},
	}
	for i := range movements {
		if err := repo.Commit(ctx, &movements[i], true); err != nil {
			t.Fatalf("commit %s: %v", movements[i].Type, err)
		}
	}
	return repo, locA.ID, locB.ID
}

func TestDashboardAdminMetrics(t *testing.T) {
	repo, _, _ := seedFlows(t)
	handler := NewGetDashboardHandler(repo, nil)

	report, err := handler.Handle(context.Background(), GetDashboardQuery{
		Actor: domain.Actor{ID: 1, Role: domain.RoleAdmin},
	})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if report.Purchases != 100 {
		t.Errorf("purchases = %d, want 100", report.Purchases)
	}
	if report.Expended != 20 {
		t.Errorf("expended = %d, want 20", report.Expended)
	}
	if report.TransferIn != 0 || report.TransferOut != 0 {
		t.Errorf("transfers should net to zero at system scope: in=%d out=%d", report.TransferIn, report.TransferOut)
	}
	if report.NetMovement != 80 {
		t.Errorf("net movement = %d, want 80", report.NetMovement)
	}
	if report.ClosingBalance != 80 {
		t.Errorf("closing balance = %d, want 80", report.ClosingBalance)
	}
	if report.OpeningBalance != 0 {
		t.Errorf("opening balance = %d, want 0", report.OpeningBalance)
	}
}

func TestDashboardCommanderMetrics(t *testing.T) {
	repo, locA, locB := seedFlows(t)
	handler := NewGetDashboardHandler(repo, nil)
	ctx := context.Background()

	atA, err := handler.Handle(ctx, GetDashboardQuery{
		Actor: domain.Actor{ID: 2, Role: domain.RoleCommander, HomeLocationID: &locA},
	})
	if err != nil {
		t.Fatalf("dashboard at A: %v", err)
	}
	if atA.Purchases != 100 || atA.TransferOut != 30 || atA.TransferIn != 0 || atA.Expended != 20 {
		t.Errorf("flows at A = %+v", atA)
	}
	if atA.NetMovement != 70 {
		t.Errorf("net movement at A = %d, want 70", atA.NetMovement)
	}
	if atA.ClosingBalance != 50 {
		t.Errorf("closing balance at A = %d, want 50", atA.ClosingBalance)
	}
	if atA.OpeningBalance != 0 {
		t.Errorf("opening balance at A = %d, want 0", atA.OpeningBalance)
	}

	atB, err := handler.Handle(ctx, GetDashboardQuery{
		Actor: domain.Actor{ID: 3, Role: domain.RoleCommander, HomeLocationID: &locB},
	})
	if err != nil {
		t.Fatalf("dashboard at B: %v", err)
	}
	if atB.TransferIn != 30 || atB.TransferOut != 0 || atB.Purchases != 0 || atB.Expended != 0 {
		t.Errorf("flows at B = %+v", atB)
	}
	if atB.ClosingBalance != 30 || atB.NetMovement != 30 || atB.OpeningBalance != 0 {
		t.Errorf("balances at B = closing %d, net %d, opening %d", atB.ClosingBalance, atB.NetMovement, atB.OpeningBalance)
	}
}

// Expenditures count toward dashboard metrics for every role, even though
// the logistics movement listing hides them.
func TestDashboardLogisticsSeesExpenditure(t *testing.T) {
	repo, locA, _ := seedFlows(t)
	handler := NewGetDashboardHandler(repo, nil)

	report, err := handler.Handle(context.Background(), GetDashboardQuery{
		Actor: domain.Actor{ID: 4, Role: domain.RoleLogistics, HomeLocationID: &locA},
	})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if report.Expended != 20 {
		t.Errorf("expended = %d, want 20", report.Expended)
	}
}

// A new purchase shifts closing balance and net flow by the same amount;
// the reconstructed opening balance must not move.
func TestDashboardOpeningBalanceStableUnderNewPurchase(t *testing.T) {
	repo, locA, _ := seedFlows(t)
	handler := NewGetDashboardHandler(repo, nil)
	ctx := context.Background()
	admin := domain.Actor{ID: 1, Role: domain.RoleAdmin}

	before, err := handler.Handle(ctx, GetDashboardQuery{Actor: admin})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if err := repo.Commit(ctx, &domain.Movement{
		Type: domain.MovementPurchase, ItemTypeID: 1, Quantity: 40, ToLocationID: &locA,
	}, true); err != nil {
		t.Fatalf("commit: %v", err)
	}

	after, err := handler.Handle(ctx, GetDashboardQuery{Actor: admin})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if after.ClosingBalance != before.ClosingBalance+40 {
		t.Errorf("closing balance = %d, want %d", after.ClosingBalance, before.ClosingBalance+40)
	}
	if after.OpeningBalance != before.OpeningBalance {
		t.Errorf("opening balance moved: %d -> %d", before.OpeningBalance, after.OpeningBalance)
	}
}

func TestDashboardRecentMovements(t *testing.T) {
	repo, locA, _ := seedFlows(t)
	handler := NewGetDashboardHandler(repo, nil)
	ctx := context.Background()

	// Push the log past the recent window.
	for i := 0; i < 4; i++ {
		if err := repo.Commit(ctx, &domain.Movement{
			Type: domain.MovementPurchase, ItemTypeID: 1, Quantity: 1, ToLocationID: &locA,
		}, true); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	report, err := handler.Handle(ctx, GetDashboardQuery{
		Actor: domain.Actor{ID: 1, Role: domain.RoleAdmin},
	})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if len(report.RecentMovements) != 5 {
		t.Fatalf("expected 5 recent movements, got %d", len(report.RecentMovements))
	}
	for i := 1; i < len(report.RecentMovements); i++ {
		if report.RecentMovements[i].Timestamp.After(report.RecentMovements[i-1].Timestamp) {
			t.Fatalf("recent movements out of order at %d", i)
		}
	}

	newest := report.RecentMovements[0]
	if newest.ItemType != "Rifle" {
		t.Errorf("item type name = %q, want Rifle", newest.ItemType)
	}
	if newest.ToLocation != "Base Alpha" {
		t.Errorf("destination name = %q, want Base Alpha", newest.ToLocation)
	}
}

func TestDashboardUnknownRoleEmpty(t *testing.T) {
	repo, locA, _ := seedFlows(t)
	handler := NewGetDashboardHandler(repo, nil)

	report, err := handler.Handle(context.Background(), GetDashboardQuery{
		Actor: domain.Actor{ID: 9, Role: "AUDITOR", HomeLocationID: &locA},
	})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if report.ClosingBalance != 0 || report.Purchases != 0 || len(report.RecentMovements) != 0 {
		t.Errorf("unknown role should get an empty report: %+v", report)
	}
}
