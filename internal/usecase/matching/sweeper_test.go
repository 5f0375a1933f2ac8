package matching

import (
	"context"
	"testing"
	"time"

	domain "qloan-backend/internal/domain/order"
)

func TestSweep_ExpiresStaleOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale := f.addBorrower(t, "1000", 12, "10")
	aged, _ := f.borrowers.GetByOrderID(ctx, stale.OrderID)
	aged.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	if err := f.borrowers.SaveVersioned(ctx, aged); err != nil {
		t.Fatalf("age order: %v", err)
	}

	s := NewSweeper(f.uc, f.borrowers, time.Minute, 24*time.Hour)
	s.Sweep(ctx)

	got, _ := f.borrowers.GetByOrderID(ctx, stale.OrderID)
	if got.Status != domain.BorrowerExpired {
		t.Fatalf("status = %s, want expired", got.Status)
	}
}

func TestSweep_MatchesWhenLiquidityArrives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.addBorrower(t, "1000", 12, "10")
	s := NewSweeper(f.uc, f.borrowers, time.Minute, 24*time.Hour)

	// no liquidity yet: the order just stays open
	s.Sweep(ctx)
	got, _ := f.borrowers.GetByOrderID(ctx, b.OrderID)
	if got.Status != domain.BorrowerOpen {
		t.Fatalf("status = %s, want open", got.Status)
	}

	f.addLender(t, "1000", "8", time.Now().UTC())
	s.Sweep(ctx)

	got, _ = f.borrowers.GetByOrderID(ctx, b.OrderID)
	if got.Status != domain.BorrowerFunded {
		t.Fatalf("status = %s, want funded after liquidity arrived", got.Status)
	}
}

func TestSweep_FreshOrderIsNotExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.addBorrower(t, "1000", 12, "10")
	s := NewSweeper(f.uc, f.borrowers, time.Minute, 24*time.Hour)
	s.Sweep(ctx)

	got, _ := f.borrowers.GetByOrderID(ctx, b.OrderID)
	if got.Status != domain.BorrowerOpen {
		t.Fatalf("fresh unmatched order must stay open, got %s", got.Status)
	}
}
