package command

import (
	"context"
	"errors"
	"testing"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
	"github.com/garrison/asset-ledger/internal/ledger/repository"
)

func TestUpdateLocation(t *testing.T) {
	repo := repository.NewMemoryLedgerRepository()
	ctx := context.Background()

	alpha := &domain.Location{Name: "Base Alpha", Address: "Sector 7"}
	bravo := &domain.Location{Name: "Base Bravo"}
	if err := repo.CreateLocation(ctx, alpha); err != nil {
		t.Fatalf("create location: %v", err)
	}
	if err := repo.CreateLocation(ctx, bravo); err != nil {
		t.Fatalf("create location: %v", err)
	}

	handler := NewUpdateLocationHandler(repo)

	updated, err := handler.Handle(ctx, UpdateLocationCommand{ID: alpha.ID, Name: "Base Alpha North", Address: "Sector 9"})
	if err != nil {
		t.Fatalf("update location: %v", err)
	}
	if updated.Name != "Base Alpha North" || updated.Address != "Sector 9" {
		t.Fatalf("update not applied: %+v", updated)
	}

	stored, err := repo.FindLocationByID(ctx, alpha.ID)
	if err != nil {
		t.Fatalf("find location: %v", err)
	}
	if stored.Name != "Base Alpha North" || stored.Address != "Sector 9" {
		t.Fatalf("stored location not updated: %+v", stored)
	}

	if _, err := handler.Handle(ctx, UpdateLocationCommand{ID: alpha.ID}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty name, got %v", err)
	}
	if _, err := handler.Handle(ctx, UpdateLocationCommand{ID: 999, Name: "Base Ghost"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if _, err := handler.Handle(ctx, UpdateLocationCommand{ID: alpha.ID, Name: "Base Bravo"}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for duplicate name, got %v", err)
	}

	// Renaming a location to its own current name stays legal.
	if _, err := handler.Handle(ctx, UpdateLocationCommand{ID: bravo.ID, Name: "Base Bravo", Address: "Sector 2"}); err != nil {
		t.Fatalf("self-rename: %v", err)
	}
}

func TestUpdateItemType(t *testing.T) {
	repo := repository.NewMemoryLedgerRepository()
	ctx := context.Background()

	rifle := &domain.ItemType{Name: "Rifle", Description: "5.56mm service rifle"}
	if err := repo.CreateItemType(ctx, rifle); err != nil {
		t.Fatalf("create item type: %v", err)
	}

	handler := NewUpdateItemTypeHandler(repo)

	updated, err := handler.Handle(ctx, UpdateItemTypeCommand{ID: rifle.ID, Name: "Rifle", Description: "7.62mm service rifle"})
	if err != nil {
		t.Fatalf("update item type: %v", err)
	}
	if updated.Description != "7.62mm service rifle" {
		t.Fatalf("update not applied: %+v", updated)
	}

	stored, err := repo.FindItemTypeByID(ctx, rifle.ID)
	if err != nil {
		t.Fatalf("find item type: %v", err)
	}
	if stored.Description != "7.62mm service rifle" {
		t.Fatalf("stored item type not updated: %+v", stored)
	}

	if _, err := handler.Handle(ctx, UpdateItemTypeCommand{ID: rifle.ID}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty name, got %v", err)
	}
	if _, err := handler.Handle(ctx, UpdateItemTypeCommand{ID: 999, Name: "Helmet"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}
