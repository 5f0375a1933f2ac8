package mysql

import (
	"context"

	"qloan-backend/internal/domain/order"
	"qloan-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Borrowers:   &BorrowerRepository{db: tx},
		Lenders:     &LenderRepository{db: tx},
		Commitments: &CommitmentRepository{db: tx},
		Transitions: &TransitionRepository{db: tx},
		Schedules:   &ScheduleRepository{db: tx},
		Ratings:     &RatingRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinBorrowerTx(ctx context.Context, orderID string, fn func(r uow.Repos, o *order.BorrowerOrder) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the borrower order row up-front to prevent races
		o, err := r.Borrowers.GetByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		return fn(r, o)
	})
}
