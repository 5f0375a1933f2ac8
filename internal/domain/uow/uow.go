package uow

import (
	"context"

	"qloan-backend/internal/domain/order"
	"qloan-backend/internal/domain/rating"
	"qloan-backend/internal/domain/schedule"
)

type Repos struct {
	Borrowers   order.BorrowerRepository
	Lenders     order.LenderRepository
	Commitments order.CommitmentRepository
	Transitions order.TransitionRepository
	Schedules   schedule.Repository
	Ratings     rating.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the borrower order row first, then pass it in
	WithinBorrowerTx(ctx context.Context, orderID string, fn func(r Repos, o *order.BorrowerOrder) error) error
}
