package mysql

import (
	"context"
	"errors"

	scheduleDomain "qloan-backend/internal/domain/schedule"

	"gorm.io/gorm"
)

type ScheduleRepository struct{ db *gorm.DB }

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository { return &ScheduleRepository{db: db} }

func (r *ScheduleRepository) Create(ctx context.Context, s *scheduleDomain.PaymentSchedule) error {
	// gorm persists the installment rows through the association
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ScheduleRepository) GetByBorrowerOrderID(ctx context.Context, borrowerOrderID uint64) (*scheduleDomain.PaymentSchedule, error) {
	var out scheduleDomain.PaymentSchedule
	res := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Where("borrower_order_id = ?", borrowerOrderID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, scheduleDomain.ErrNotFound
	}
	return &out, res.Error
}
