package uowmock

import (
	"context"
	"errors"

	"qloan-backend/internal/domain/order"
	"qloan-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var (
	_ uow.UnitOfWork = (*UoW)(nil)
	_ uow.UnitOfWork = (*Fake)(nil)
)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinBorrowerTxFn func(ctx context.Context, orderID string, fn func(r uow.Repos, o *order.BorrowerOrder) error) error
}

func New() *UoW { return &UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinBorrowerTx(ctx context.Context, orderID string, fn func(r uow.Repos, o *order.BorrowerOrder) error) error {
	if m.WithinBorrowerTxFn != nil {
		return m.WithinBorrowerTxFn(ctx, orderID, fn)
	}
	return errUnimplemented
}

// Fake runs the body directly against a fixed repo bundle. There is no
// rollback, which matches how the usecases are written: they validate before
// mutating. WithinBorrowerTx resolves the borrower order first, like the
// gorm implementation locks it.
type Fake struct{ Repos uow.Repos }

func NewFake(r uow.Repos) *Fake { return &Fake{Repos: r} }

func (f *Fake) WithinTx(_ context.Context, fn func(r uow.Repos) error) error {
	return fn(f.Repos)
}

func (f *Fake) WithinBorrowerTx(ctx context.Context, orderID string, fn func(r uow.Repos, o *order.BorrowerOrder) error) error {
	o, err := f.Repos.Borrowers.GetByOrderIDForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	return fn(f.Repos, o)
}
