package query

import (
	"context"
	"testing"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
	"github.com/garrison/asset-ledger/internal/ledger/repository"
)

// seedLedger populates two locations, one item type and a movement mix that
// exercises every visibility rule.
func seedLedger(t *testing.T) (*repository.MemoryLedgerRepository, uint, uint) {
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
		{Type: domain.MovementPurchase, ItemTypeID: rifle.ID, Quantity: 60, ToLocationID: &locB.ID},
		{Type: domain.MovementTransfer, ItemTypeID: rifle.ID, Quantity: 30, FromLocationID: &locA.ID, ToLocationID: &locB.ID},
		{Type: domain.MovementAssignment, ItemTypeID: rifle.ID, Quantity: 10, FromLocationID: &locA.ID, Recipient: "alpha squad"},
		{Type: domain.MovementExpenditure, ItemTypeID: rifle.ID, Quantity: 20, FromLocationID: &locA.ID},
	}
	for i := range movements {
		if err := repo.Commit(ctx, &movements[i], true); err != nil {
			t.Fatalf("commit %s: %v", movements[i].Type, err)
		}
	}
	return repo, locA.ID, locB.ID
}

func TestListMovementsAdminSeesAll(t *testing.T) {
	repo, _, _ := seedLedger(t)
	handler := NewListMovementsHandler(repo)

	movements, err := handler.Handle(context.Background(), ListMovementsQuery{
		Actor: domain.Actor{ID: 1, Role: domain.RoleAdmin},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(movements) != 5 {
		t.Fatalf("admin should see all 5 movements, got %d", len(movements))
	}
}

func TestListMovementsCommanderScope(t *testing.T) {
	repo, locA, _ := seedLedger(t)
	handler := NewListMovementsHandler(repo)

	movements, err := handler.Handle(context.Background(), ListMovementsQuery{
		Actor: domain.Actor{ID: 2, Role: domain.RoleCommander, HomeLocationID: &locA},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Everything except the Bravo-only purchase.
	if len(movements) != 4 {
		t.Fatalf("commander should see 4 movements, got %d", len(movements))
	}
	for i := range movements {
		if !movements[i].TouchesLocation(locA) {
			t.Fatalf("movement %d escapes the commander's scope", movements[i].ID)
		}
	}
}

func TestListMovementsLogisticsScope(t *testing.T) {
	repo, locA, _ := seedLedger(t)
	handler := NewListMovementsHandler(repo)

	movements, err := handler.Handle(context.Background(), ListMovementsQuery{
		Actor: domain.Actor{ID: 3, Role: domain.RoleLogistics, HomeLocationID: &locA},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Alpha purchase and the Alpha to Bravo transfer only.
	if len(movements) != 2 {
		t.Fatalf("logistics should see 2 movements, got %d", len(movements))
	}
	for i := range movements {
		if movements[i].Type != domain.MovementPurchase && movements[i].Type != domain.MovementTransfer {
			t.Fatalf("logistics saw a %s movement", movements[i].Type)
		}
	}
}

// TestVisibilitySubsetChain verifies logistics ⊆ commander ⊆ admin for the
// same home location.
func TestVisibilitySubsetChain(t *testing.T) {
	repo, locA, _ := seedLedger(t)
	handler := NewListMovementsHandler(repo)
	ctx := context.Background()

	ids := func(actor domain.Actor) map[uint]bool {
		movements, err := handler.Handle(ctx, ListMovementsQuery{Actor: actor})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		set := make(map[uint]bool, len(movements))
		for i := range movements {
			set[movements[i].ID] = true
		}
		return set
	}

	adminSet := ids(domain.Actor{ID: 1, Role: domain.RoleAdmin})
	commanderSet := ids(domain.Actor{ID: 2, Role: domain.RoleCommander, HomeLocationID: &locA})
	logisticsSet := ids(domain.Actor{ID: 3, Role: domain.RoleLogistics, HomeLocationID: &locA})

	for id := range logisticsSet {
		if !commanderSet[id] {
			t.Fatalf("movement %d visible to logistics but not commander", id)
		}
	}
	for id := range commanderSet {
		if !adminSet[id] {
			t.Fatalf("movement %d visible to commander but not admin", id)
		}
	}
}

func TestListMovementsPreservesOrder(t *testing.T) {
	repo, locA, _ := seedLedger(t)
	handler := NewListMovementsHandler(repo)

	movements, err := handler.Handle(context.Background(), ListMovementsQuery{
		Actor: domain.Actor{ID: 2, Role: domain.RoleCommander, HomeLocationID: &locA},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(movements); i++ {
		if movements[i].Timestamp.After(movements[i-1].Timestamp) {
			t.Fatalf("scoped listing out of order at %d", i)
		}
	}
}

func TestListMovementsUnknownRoleSeesNothing(t *testing.T) {
	repo, locA, _ := seedLedger(t)
	handler := NewListMovementsHandler(repo)

	movements, err := handler.Handle(context.Background(), ListMovementsQuery{
		Actor: domain.Actor{ID: 9, Role: "AUDITOR", HomeLocationID: &locA},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(movements) != 0 {
		t.Fatalf("unknown role should see nothing, got %d movements", len(movements))
	}
}
