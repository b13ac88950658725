package query

import (
	"context"
	"errors"
	"testing"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
)

func TestGetBalance(t *testing.T) {
	repo, locA, locB := seedFlows(t)
	handler := NewGetBalanceHandler(repo)
	ctx := context.Background()

	q, err := handler.Handle(ctx, GetBalanceQuery{LocationID: locA, ItemTypeID: 1})
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if q != 50 {
		t.Errorf("balance at A = %d, want 50", q)
	}

	q, err = handler.Handle(ctx, GetBalanceQuery{LocationID: locB, ItemTypeID: 1})
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if q != 30 {
		t.Errorf("balance at B = %d, want 30", q)
	}

	// A key never touched by any movement reads as zero.
	q, err = handler.Handle(ctx, GetBalanceQuery{LocationID: locB, ItemTypeID: 42})
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if q != 0 {
		t.Errorf("untouched balance = %d, want 0", q)
	}

	if _, err := handler.Handle(ctx, GetBalanceQuery{ItemTypeID: 1}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing location, got %v", err)
	}
	if _, err := handler.Handle(ctx, GetBalanceQuery{LocationID: locA}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing item type, got %v", err)
	}
}
