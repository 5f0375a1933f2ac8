package mysql

import (
	"context"
	"errors"

	orderDomain "qloan-backend/internal/domain/order"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BorrowerRepository struct{ db *gorm.DB }

func NewBorrowerRepository(db *gorm.DB) *BorrowerRepository { return &BorrowerRepository{db: db} }

func (r *BorrowerRepository) Create(ctx context.Context, o *orderDomain.BorrowerOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *BorrowerRepository) GetByOrderID(ctx context.Context, orderID string) (*orderDomain.BorrowerOrder, error) {
	var out orderDomain.BorrowerOrder
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, orderDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BorrowerRepository) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*orderDomain.BorrowerOrder, error) {
	var out orderDomain.BorrowerOrder
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, orderDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BorrowerRepository) ListByStatus(ctx context.Context, status orderDomain.BorrowerStatus) ([]*orderDomain.BorrowerOrder, error) {
	var out []*orderDomain.BorrowerOrder
	res := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *BorrowerRepository) List(ctx context.Context) ([]*orderDomain.BorrowerOrder, error) {
	var out []*orderDomain.BorrowerOrder
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}

// SaveVersioned is the optimistic-concurrency save: the UPDATE is guarded by
// the version column, so a writer working from a stale snapshot loses.
func (r *BorrowerRepository) SaveVersioned(ctx context.Context, o *orderDomain.BorrowerOrder) error {
	prev := o.Version
	o.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(&orderDomain.BorrowerOrder{}).
		Where("id = ? AND version = ?", o.ID, prev).
		Updates(map[string]any{
			"status":           o.Status,
			"state_updated_at": o.StateUpdatedAt,
			"version":          o.Version,
		})
	if res.Error != nil {
		o.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		o.Version = prev
		return orderDomain.ErrConcurrentModification
	}
	return nil
}
