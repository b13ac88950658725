package domain

import (
	"errors"
	"testing"
)

func uintPtr(v uint) *uint { return &v }

func TestMovementValidate(t *testing.T) {
	tests := []struct {
		name     string
		movement Movement
		wantErr  bool
	}{
		{
			name:     "valid purchase",
			movement: Movement{Type: MovementPurchase, ItemTypeID: 1, Quantity: 10, ToLocationID: uintPtr(1)},
		},
		{
			name:     "valid transfer",
			movement: Movement{Type: MovementTransfer, ItemTypeID: 1, Quantity: 10, FromLocationID: uintPtr(1), ToLocationID: uintPtr(2)},
		},
		{
			name:     "valid assignment",
			movement: Movement{Type: MovementAssignment, ItemTypeID: 1, Quantity: 10, FromLocationID: uintPtr(1), Recipient: "alpha squad"},
		},
		{
			name:     "valid expenditure",
			movement: Movement{Type: MovementExpenditure, ItemTypeID: 1, Quantity: 10, FromLocationID: uintPtr(1)},
		},
		{
			name:     "unknown type",
			movement: Movement{Type: "DONATION", ItemTypeID: 1, Quantity: 10, ToLocationID: uintPtr(1)},
			wantErr:  true,
		},
		{
			name:     "zero quantity",
			movement: Movement{Type: MovementPurchase, ItemTypeID: 1, Quantity: 0, ToLocationID: uintPtr(1)},
			wantErr:  true,
		},
		{
			name:     "negative quantity",
			movement: Movement{Type: MovementPurchase, ItemTypeID: 1, Quantity: -5, ToLocationID: uintPtr(1)},
			wantErr:  true,
		},
		{
			name:     "missing item type",
			movement: Movement{Type: MovementPurchase, Quantity: 10, ToLocationID: uintPtr(1)},
			wantErr:  true,
		},
		{
			name:     "purchase without destination",
			movement: Movement{Type: MovementPurchase, ItemTypeID: 1, Quantity: 10},
			wantErr:  true,
		},
		{
			name:     "transfer without source",
			movement: Movement{Type: MovementTransfer, ItemTypeID: 1, Quantity: 10, ToLocationID: uintPtr(2)},
			wantErr:  true,
		},
		{
			name:     "transfer without destination",
			movement: Movement{Type: MovementTransfer, ItemTypeID: 1, Quantity: 10, FromLocationID: uintPtr(1)},
			wantErr:  true,
		},
		{
			name:     "transfer to same location",
			movement: Movement{Type: MovementTransfer, ItemTypeID: 1, Quantity: 10, FromLocationID: uintPtr(1), ToLocationID: uintPtr(1)},
			wantErr:  true,
		},
		{
			name:     "expenditure without source",
			movement: Movement{Type: MovementExpenditure, ItemTypeID: 1, Quantity: 10},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.movement.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidRequest) {
					t.Fatalf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMovementDeltas(t *testing.T) {
	tests := []struct {
		name     string
		movement Movement
		want     []Delta
	}{
		{
			name:     "purchase credits destination",
			movement: Movement{Type: MovementPurchase, ItemTypeID: 7, Quantity: 100, ToLocationID: uintPtr(1)},
			want:     []Delta{{LocationID: 1, ItemTypeID: 7, Quantity: 100}},
		},
		{
			name:     "transfer debits source and credits destination",
			movement: Movement{Type: MovementTransfer, ItemTypeID: 7, Quantity: 30, FromLocationID: uintPtr(1), ToLocationID: uintPtr(2)},
			want: []Delta{
				{LocationID: 1, ItemTypeID: 7, Quantity: -30},
				{LocationID: 2, ItemTypeID: 7, Quantity: 30},
			},
		},
		{
			name:     "assignment debits source",
			movement: Movement{Type: MovementAssignment, ItemTypeID: 7, Quantity: 5, FromLocationID: uintPtr(1)},
			want:     []Delta{{LocationID: 1, ItemTypeID: 7, Quantity: -5}},
		},
		{
			name:     "expenditure debits source",
			movement: Movement{Type: MovementExpenditure, ItemTypeID: 7, Quantity: 20, FromLocationID: uintPtr(1)},
			want:     []Delta{{LocationID: 1, ItemTypeID: 7, Quantity: -20}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.movement.Deltas()
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d deltas, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("delta %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestTransferDeltasSumToZero(t *testing.T) {
	m := Movement{Type: MovementTransfer, ItemTypeID: 3, Quantity: 42, FromLocationID: uintPtr(5), ToLocationID: uintPtr(9)}

	var sum int64
	for _, d := range m.Deltas() {
		sum += d.Quantity
	}
	if sum != 0 {
		t.Fatalf("transfer deltas should conserve quantity, sum = %d", sum)
	}
}

func TestTouchesLocation(t *testing.T) {
	m := Movement{Type: MovementTransfer, ItemTypeID: 1, Quantity: 10, FromLocationID: uintPtr(1), ToLocationID: uintPtr(2)}

	if !m.TouchesLocation(1) {
		t.Error("expected movement to touch source location")
	}
	if !m.TouchesLocation(2) {
		t.Error("expected movement to touch destination location")
	}
	if m.TouchesLocation(3) {
		t.Error("expected movement not to touch unrelated location")
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"ADMIN", "BASE_COMMANDER", "LOGISTICS_OFFICER"} {
		if _, ok := ParseRole(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "admin", "SUPERUSER"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

func TestActorCanSee(t *testing.T) {
	purchase := &Movement{Type: MovementPurchase, ItemTypeID: 1, Quantity: 10, ToLocationID: uintPtr(1)}
	transferIn := &Movement{Type: MovementTransfer, ItemTypeID: 1, Quantity: 10, FromLocationID: uintPtr(2), ToLocationID: uintPtr(1)}
	expenditure := &Movement{Type: MovementExpenditure, ItemTypeID: 1, Quantity: 10, FromLocationID: uintPtr(1)}
	elsewhere := &Movement{Type: MovementPurchase, ItemTypeID: 1, Quantity: 10, ToLocationID: uintPtr(3)}

	admin := Actor{ID: 1, Role: RoleAdmin}
	commander := Actor{ID: 2, Role: RoleCommander, HomeLocationID: uintPtr(1)}
	logistics := Actor{ID: 3, Role: RoleLogistics, HomeLocationID: uintPtr(1)}
	unknown := Actor{ID: 4, Role: "AUDITOR", HomeLocationID: uintPtr(1)}

	tests := []struct {
		name     string
		actor    Actor
		movement *Movement
		want     bool
	}{
		{"admin sees local purchase", admin, purchase, true},
		{"admin sees remote purchase", admin, elsewhere, true},
		{"commander sees local purchase", commander, purchase, true},
		{"commander sees local expenditure", commander, expenditure, true},
		{"commander sees inbound transfer", commander, transferIn, true},
		{"commander does not see remote purchase", commander, elsewhere, false},
		{"logistics sees local purchase", logistics, purchase, true},
		{"logistics sees inbound transfer", logistics, transferIn, true},
		{"logistics does not see local expenditure", logistics, expenditure, false},
		{"logistics does not see remote purchase", logistics, elsewhere, false},
		{"unknown role sees nothing", unknown, purchase, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.CanSee(tt.movement); got != tt.want {
				t.Errorf("CanSee = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetricsScope(t *testing.T) {
	admin := Actor{Role: RoleAdmin, HomeLocationID: uintPtr(4)}
	if admin.MetricsScope() != nil {
		t.Error("admin scope should be system-wide")
	}

	commander := Actor{Role: RoleCommander, HomeLocationID: uintPtr(4)}
	scope := commander.MetricsScope()
	if scope == nil || *scope != 4 {
		t.Errorf("commander scope = %v, want 4", scope)
	}

	homeless := Actor{Role: RoleCommander}
	scope = homeless.MetricsScope()
	if scope == nil || *scope != 0 {
		t.Errorf("commander without home scope = %v, want 0", scope)
	}
}
