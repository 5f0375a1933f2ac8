package matching

import (
	"context"
	"errors"
	"log"
	"time"

	domain "qloan-backend/internal/domain/order"
	"qloan-backend/internal/domain/uow"
)

// Sweeper periodically re-evaluates open borrower orders against current
// liquidity and expires the ones past their TTL. Matching itself stays
// synchronous-per-order, so the deterministic priority rule is the same on
// both paths.
type Sweeper struct {
	uc        *Usecase
	borrowers domain.BorrowerRepository
	interval  time.Duration
	orderTTL  time.Duration
}

func NewSweeper(uc *Usecase, borrowers domain.BorrowerRepository, interval, orderTTL time.Duration) *Sweeper {
	return &Sweeper{uc: uc, borrowers: borrowers, interval: interval, orderTTL: orderTTL}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep is one pass: oldest open orders first, so the evaluation order is
// deterministic for a given store snapshot.
func (s *Sweeper) Sweep(ctx context.Context) {
	open, err := s.borrowers.ListByStatus(ctx, domain.BorrowerOpen)
	if err != nil {
		log.Printf("sweep: list open orders: %v", err)
		return
	}
	cutoff := time.Now().UTC().Add(-s.orderTTL)
	for _, o := range open {
		if s.orderTTL > 0 && o.CreatedAt.Before(cutoff) {
			if err := s.expire(ctx, o.OrderID); err != nil {
				log.Printf("sweep: expire %s: %v", o.OrderID, err)
			}
			continue
		}
		_, err := s.uc.Rematch(ctx, o.OrderID)
		switch {
		case err == nil:
			log.Printf("sweep: matched %s", o.OrderID)
		case errors.Is(err, domain.ErrInsufficientLiquidity),
			errors.Is(err, domain.ErrInvalidTransition):
			// stays open / already moved on; nothing to do
		default:
			log.Printf("sweep: match %s: %v", o.OrderID, err)
		}
	}
}

func (s *Sweeper) expire(ctx context.Context, orderID string) error {
	return s.uc.uow.WithinBorrowerTx(ctx, orderID, func(r uow.Repos, o *domain.BorrowerOrder) error {
		if !o.Status.CanTransitionTo(domain.BorrowerExpired) {
			return nil
		}
		from := o.Status
		o.Status = domain.BorrowerExpired
		o.StateUpdatedAt = time.Now().UTC()
		if err := r.Borrowers.SaveVersioned(ctx, o); err != nil {
			return err
		}
		return r.Transitions.Record(ctx, o.OrderID, string(from), string(o.Status))
	})
}
