package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "qloan-backend/internal/domain/order"
	"qloan-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The models
// use plain varchar statuses, so the production schema migrates cleanly.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.BorrowerOrder{},
		&domain.LenderOrder{},
		&domain.Commitment{},
		&domain.Transition{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeBorrowerOrder(orderID, borrowerID string) *domain.BorrowerOrder {
	return &domain.BorrowerOrder{
		OrderID:        orderID,
		BorrowerID:     borrowerID,
		Principal:      decimal.NewFromInt(1_000_000),
		DurationMonths: 12,
		MaxRate:        decimal.NewFromFloat(12.5),
		Status:         domain.BorrowerOpen,
		StateUpdatedAt: time.Now().UTC(),
	}
}

func TestBorrowerCreateAndGetByOrderID(t *testing.T) {
	db := openTestDB(t)
	repo := NewBorrowerRepository(db)
	ctx := context.Background()

	orderID := id.NewID32()
	o := makeBorrowerOrder(orderID, id.NewID32())
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.ID == 0 {
		t.Fatal("Create did not set auto-increment ID")
	}

	got, err := repo.GetByOrderID(ctx, orderID)
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	if got.OrderID != orderID || !got.Principal.Equal(o.Principal) {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestBorrowerGetByOrderID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewBorrowerRepository(db)

	_, err := repo.GetByOrderID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBorrowerSaveVersioned(t *testing.T) {
	db := openTestDB(t)
	repo := NewBorrowerRepository(db)
	ctx := context.Background()

	o := makeBorrowerOrder(id.NewID32(), id.NewID32())
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}

	o.Status = domain.BorrowerFunded
	o.StateUpdatedAt = time.Now().UTC()
	if err := repo.SaveVersioned(ctx, o); err != nil {
		t.Fatalf("SaveVersioned: %v", err)
	}
	if o.Version != 1 {
		t.Fatalf("version = %d, want 1", o.Version)
	}

	got, err := repo.GetByOrderID(ctx, o.OrderID)
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	if got.Status != domain.BorrowerFunded || got.Version != 1 {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestBorrowerSaveVersioned_StaleSnapshotLoses(t *testing.T) {
	db := openTestDB(t)
	repo := NewBorrowerRepository(db)
	ctx := context.Background()

	o := makeBorrowerOrder(id.NewID32(), id.NewID32())
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// two readers take the same snapshot
	first, _ := repo.GetByOrderID(ctx, o.OrderID)
	second, _ := repo.GetByOrderID(ctx, o.OrderID)

	first.Status = domain.BorrowerCancelled
	if err := repo.SaveVersioned(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second.Status = domain.BorrowerMatched
	err := repo.SaveVersioned(ctx, second)
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
	// the losing save must not bump the in-memory version
	if second.Version != 0 {
		t.Fatalf("loser version = %d, want 0", second.Version)
	}

	got, _ := repo.GetByOrderID(ctx, o.OrderID)
	if got.Status != domain.BorrowerCancelled {
		t.Fatalf("winner overwritten: %s", got.Status)
	}
}

func TestBorrowerListByStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewBorrowerRepository(db)
	ctx := context.Background()

	open1 := makeBorrowerOrder(id.NewID32(), id.NewID32())
	open2 := makeBorrowerOrder(id.NewID32(), id.NewID32())
	done := makeBorrowerOrder(id.NewID32(), id.NewID32())
	done.Status = domain.BorrowerCompleted
	for _, o := range []*domain.BorrowerOrder{open1, open2, done} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListByStatus(ctx, domain.BorrowerOpen)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d open orders, want 2", len(got))
	}
	if got[0].ID > got[1].ID {
		t.Fatal("listing not ordered by creation")
	}
}
