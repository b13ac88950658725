package command

import (
	"context"
	"errors"
	"testing"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
	"github.com/garrison/asset-ledger/internal/ledger/repository"
)

func TestCreateLocation(t *testing.T) {
	repo := repository.NewMemoryLedgerRepository()
	handler := NewCreateLocationHandler(repo)
	ctx := context.Background()

	loc, err := handler.Handle(ctx, CreateLocationCommand{Name: "Base Alpha", Address: "Sector 7"})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	if loc.ID == 0 {
		t.Fatal("expected assigned id")
	}

	if _, err := handler.Handle(ctx, CreateLocationCommand{}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty name, got %v", err)
	}
	if _, err := handler.Handle(ctx, CreateLocationCommand{Name: "Base Alpha"}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for duplicate name, got %v", err)
	}
}

func TestCreateItemType(t *testing.T) {
	repo := repository.NewMemoryLedgerRepository()
	handler := NewCreateItemTypeHandler(repo)
	ctx := context.Background()

	it, err := handler.Handle(ctx, CreateItemTypeCommand{Name: "Rifle", Description: "5.56mm service rifle"})
	if err != nil {
		t.Fatalf("create item type: %v", err)
	}
	if it.ID == 0 {
		t.Fatal("expected assigned id")
	}

	if _, err := handler.Handle(ctx, CreateItemTypeCommand{}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty name, got %v", err)
	}
}
