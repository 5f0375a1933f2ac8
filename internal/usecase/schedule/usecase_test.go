package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	orderDomain "qloan-backend/internal/domain/order"
	domain "qloan-backend/internal/domain/schedule"
	"qloan-backend/internal/testutil/ordermock"
	"qloan-backend/internal/testutil/schedulemock"
	"qloan-backend/pkg/id"

	"github.com/shopspring/decimal"
)

func TestGetByOrderID(t *testing.T) {
	borrowers := ordermock.NewBorrowerRepo()
	schedules := schedulemock.New()
	uc := NewUsecase(borrowers, schedules)
	ctx := context.Background()

	o := &orderDomain.BorrowerOrder{
		OrderID:        id.NewID32(),
		BorrowerID:     id.NewID32(),
		Principal:      decimal.NewFromInt(1000),
		DurationMonths: 6,
		MaxRate:        decimal.NewFromInt(10),
		Status:         orderDomain.BorrowerFunded,
	}
	if err := borrowers.Create(ctx, o); err != nil {
		t.Fatalf("seed borrower: %v", err)
	}

	installments, err := domain.Compute(o.Principal, decimal.NewFromInt(8), o.DurationMonths, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	plan := &domain.PaymentSchedule{
		ScheduleID:      id.NewID32(),
		BorrowerOrderID: o.ID,
		Principal:       o.Principal,
		AnnualRate:      decimal.NewFromInt(8),
		Installments:    installments,
	}
	if err := schedules.Create(ctx, plan); err != nil {
		t.Fatalf("seed schedule: %v", err)
	}

	got, err := uc.GetByOrderID(ctx, o.OrderID)
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	if got.OrderID != o.OrderID || got.ScheduleID != plan.ScheduleID {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if len(got.Installments) != 6 {
		t.Fatalf("got %d installments, want 6", len(got.Installments))
	}
	if got.Installments[0].Seq != 1 {
		t.Fatalf("first seq = %d, want 1", got.Installments[0].Seq)
	}
}

func TestGetByOrderID_UnknownOrder(t *testing.T) {
	uc := NewUsecase(ordermock.NewBorrowerRepo(), schedulemock.New())
	if _, err := uc.GetByOrderID(context.Background(), id.NewID32()); !errors.Is(err, orderDomain.ErrNotFound) {
		t.Fatalf("want order ErrNotFound, got %v", err)
	}
}

func TestGetByOrderID_NoScheduleYet(t *testing.T) {
	borrowers := ordermock.NewBorrowerRepo()
	uc := NewUsecase(borrowers, schedulemock.New())
	ctx := context.Background()

	o := &orderDomain.BorrowerOrder{
		OrderID:        id.NewID32(),
		BorrowerID:     id.NewID32(),
		Principal:      decimal.NewFromInt(500),
		DurationMonths: 3,
		MaxRate:        decimal.NewFromInt(9),
		Status:         orderDomain.BorrowerOpen,
	}
	if err := borrowers.Create(ctx, o); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.GetByOrderID(ctx, o.OrderID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want schedule ErrNotFound, got %v", err)
	}
}
