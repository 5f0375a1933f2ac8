package mysql

import (
	"context"

	orderDomain "qloan-backend/internal/domain/order"

	"gorm.io/gorm"
)

type CommitmentRepository struct{ db *gorm.DB }

func NewCommitmentRepository(db *gorm.DB) *CommitmentRepository {
	return &CommitmentRepository{db: db}
}

func (r *CommitmentRepository) Create(ctx context.Context, c *orderDomain.Commitment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommitmentRepository) ListByBorrowerOrder(ctx context.Context, borrowerOrderID uint64) ([]*orderDomain.Commitment, error) {
	var out []*orderDomain.Commitment
	res := r.db.WithContext(ctx).
		Where("borrower_order_id = ?", borrowerOrderID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

type TransitionRepository struct{ db *gorm.DB }

func NewTransitionRepository(db *gorm.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

func (r *TransitionRepository) Record(ctx context.Context, orderID, from, to string) error {
	return r.db.WithContext(ctx).Create(&orderDomain.Transition{
		OrderID: orderID,
		From:    from,
		To:      to,
	}).Error
}

func (r *TransitionRepository) ListByOrder(ctx context.Context, orderID string) ([]*orderDomain.Transition, error) {
	var out []*orderDomain.Transition
	res := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
