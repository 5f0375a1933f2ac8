package mysql

import (
	"context"
	"errors"

	orderDomain "qloan-backend/internal/domain/order"

	"gorm.io/gorm"
)

type LenderRepository struct{ db *gorm.DB }

func NewLenderRepository(db *gorm.DB) *LenderRepository { return &LenderRepository{db: db} }

func (r *LenderRepository) Create(ctx context.Context, o *orderDomain.LenderOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *LenderRepository) GetByOrderID(ctx context.Context, orderID string) (*orderDomain.LenderOrder, error) {
	var out orderDomain.LenderOrder
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, orderDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LenderRepository) GetByID(ctx context.Context, id uint64) (*orderDomain.LenderOrder, error) {
	var out orderDomain.LenderOrder
	res := r.db.WithContext(ctx).First(&out, id)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, orderDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LenderRepository) ListByStatus(ctx context.Context, statuses ...orderDomain.LenderStatus) ([]*orderDomain.LenderOrder, error) {
	var out []*orderDomain.LenderOrder
	res := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LenderRepository) List(ctx context.Context) ([]*orderDomain.LenderOrder, error) {
	var out []*orderDomain.LenderOrder
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *LenderRepository) SaveVersioned(ctx context.Context, o *orderDomain.LenderOrder) error {
	prev := o.Version
	o.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(&orderDomain.LenderOrder{}).
		Where("id = ? AND version = ?", o.ID, prev).
		Updates(map[string]any{
			"remaining":        o.Remaining,
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
