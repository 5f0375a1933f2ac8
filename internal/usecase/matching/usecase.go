package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"qloan-backend/internal/domain/notify"
	domain "qloan-backend/internal/domain/order"
	ratingDomain "qloan-backend/internal/domain/rating"
	scheduleDomain "qloan-backend/internal/domain/schedule"
	"qloan-backend/internal/domain/session"
	"qloan-backend/internal/domain/uow"
	ratingUC "qloan-backend/internal/usecase/rating"
	"qloan-backend/pkg/id"

	"github.com/shopspring/decimal"
)

const (
	// maxAttempts bounds automatic retries on ErrConcurrentModification;
	// every other error is terminal for the operation.
	maxAttempts = 3
	// defaultLockTimeout bounds how long a match waits for a contended
	// order group before giving up.
	defaultLockTimeout = 2 * time.Second
)

type RatingReader interface {
	CurrentRating(ctx context.Context, partyID string) (int, error)
}

type Usecase struct {
	uow         uow.UnitOfWork
	sessions    session.Gateway
	ratings     RatingReader
	settlements *ratingUC.Usecase
	sink        notify.Sink

	locks       *groupLock
	lockTimeout time.Duration
}

func NewUsecase(tx uow.UnitOfWork, sessions session.Gateway, ratings RatingReader, settlements *ratingUC.Usecase, sink notify.Sink) *Usecase {
	return &Usecase{
		uow:         tx,
		sessions:    sessions,
		ratings:     ratings,
		settlements: settlements,
		sink:        sink,
		locks:       newGroupLock(),
		lockTimeout: defaultLockTimeout,
	}
}

// Match verifies the acting identity, then tries to fully cover the borrower
// order from eligible lender offers. Coverage is all-or-nothing: partial
// liquidity leaves the order open and commits nothing.
func (u *Usecase) Match(ctx context.Context, credential, orderID string) (*MatchResult, error) {
	if _, err := u.sessions.Verify(ctx, credential); err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrSessionInvalid, err)
	}
	return u.match(ctx, orderID)
}

// Rematch is the internal entry used by the sweeper; the system actor needs
// no bank session.
func (u *Usecase) Rematch(ctx context.Context, orderID string) (*MatchResult, error) {
	return u.match(ctx, orderID)
}

func (u *Usecase) match(ctx context.Context, orderID string) (*MatchResult, error) {
	var (
		res *MatchResult
		err error
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err = u.attempt(ctx, orderID)
		if !errors.Is(err, domain.ErrConcurrentModification) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	u.notifyMatched(ctx, res)
	return res, nil
}

type allocation struct {
	lender *domain.LenderOrder
	amount decimal.Decimal
}

func (u *Usecase) attempt(ctx context.Context, orderID string) (*MatchResult, error) {
	release, ok := u.locks.acquire(ctx, orderID, u.lockTimeout)
	if !ok {
		return nil, domain.ErrConcurrentModification
	}
	defer release()

	var res *MatchResult
	err := u.uow.WithinBorrowerTx(ctx, orderID, func(r uow.Repos, o *domain.BorrowerOrder) error {
		if o.Status != domain.BorrowerOpen {
			return domain.ErrInvalidTransition
		}

		candidates, err := r.Lenders.ListByStatus(ctx, domain.LenderOpen, domain.LenderPartiallyMatched)
		if err != nil {
			return err
		}
		allocs, covered := u.allocate(ctx, o, candidates)
		if covered.LessThan(o.Principal) {
			return domain.ErrInsufficientLiquidity
		}

		rate := clearingRate(allocs)
		now := time.Now().UTC()

		commitments := make([]CommitmentDTO, 0, len(allocs))
		for _, a := range allocs {
			from := a.lender.Status
			a.lender.Remaining = a.lender.Remaining.Sub(a.amount)
			if a.lender.Remaining.IsZero() {
				a.lender.Status = domain.LenderFullyMatched
			} else {
				a.lender.Status = domain.LenderPartiallyMatched
			}
			a.lender.StateUpdatedAt = now
			if err := r.Lenders.SaveVersioned(ctx, a.lender); err != nil {
				return err
			}
			if a.lender.Status != from {
				if err := r.Transitions.Record(ctx, a.lender.OrderID, string(from), string(a.lender.Status)); err != nil {
					return err
				}
			}
			if err := r.Commitments.Create(ctx, &domain.Commitment{
				BorrowerOrderID: o.ID,
				LenderOrderID:   a.lender.ID,
				Amount:          a.amount,
				Rate:            rate,
			}); err != nil {
				return err
			}
			commitments = append(commitments, CommitmentDTO{
				LenderOrderID: a.lender.OrderID,
				LenderID:      a.lender.LenderID,
				Amount:        a.amount,
			})
		}

		// open → matched → funded, both hops audited
		if err := r.Transitions.Record(ctx, o.OrderID, string(domain.BorrowerOpen), string(domain.BorrowerMatched)); err != nil {
			return err
		}
		if err := r.Transitions.Record(ctx, o.OrderID, string(domain.BorrowerMatched), string(domain.BorrowerFunded)); err != nil {
			return err
		}
		o.Status = domain.BorrowerFunded
		o.StateUpdatedAt = now
		if err := r.Borrowers.SaveVersioned(ctx, o); err != nil {
			return err
		}

		installments, err := scheduleDomain.Compute(o.Principal, rate, o.DurationMonths, now)
		if err != nil {
			return err
		}
		plan := &scheduleDomain.PaymentSchedule{
			ScheduleID:      id.NewID32(),
			BorrowerOrderID: o.ID,
			Principal:       o.Principal,
			AnnualRate:      rate,
			Installments:    installments,
		}
		if err := r.Schedules.Create(ctx, plan); err != nil {
			return err
		}

		res = &MatchResult{
			OrderID:      o.OrderID,
			BorrowerID:   o.BorrowerID,
			Status:       string(o.Status),
			Rate:         rate,
			Commitments:  commitments,
			ScheduleID:   plan.ScheduleID,
			Installments: len(installments),
			MatchedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// allocate picks lenders greedily: cheapest rate first, then higher rating,
// then earliest offer. The ordering is total (order id is the last tie-break)
// so identical snapshots always produce identical allocations.
func (u *Usecase) allocate(ctx context.Context, o *domain.BorrowerOrder, candidates []*domain.LenderOrder) ([]allocation, decimal.Decimal) {
	eligible := make([]*domain.LenderOrder, 0, len(candidates))
	for _, c := range candidates {
		if c.Remaining.IsPositive() && c.MinRate.LessThanOrEqual(o.MaxRate) {
			eligible = append(eligible, c)
		}
	}

	ratings := map[string]int{}
	ratingOf := func(partyID string) int {
		if s, ok := ratings[partyID]; ok {
			return s
		}
		s, err := u.ratings.CurrentRating(ctx, partyID)
		if err != nil {
			s = ratingDomain.InitialScore
		}
		ratings[partyID] = s
		return s
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if c := a.MinRate.Cmp(b.MinRate); c != 0 {
			return c < 0
		}
		if ra, rb := ratingOf(a.LenderID), ratingOf(b.LenderID); ra != rb {
			return ra > rb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.OrderID < b.OrderID
	})

	var (
		allocs  []allocation
		covered = decimal.Zero
	)
	need := o.Principal
	for _, l := range eligible {
		if !need.IsPositive() {
			break
		}
		take := decimal.Min(need, l.Remaining)
		allocs = append(allocs, allocation{lender: l, amount: take})
		covered = covered.Add(take)
		need = need.Sub(take)
	}
	return allocs, covered
}

// clearingRate is the highest minimum rate among the consumed offers: the
// cheapest single rate every participating lender accepts.
func clearingRate(allocs []allocation) decimal.Decimal {
	rate := decimal.Zero
	for _, a := range allocs {
		if a.lender.MinRate.GreaterThan(rate) {
			rate = a.lender.MinRate
		}
	}
	return rate
}

// Complete settles a funded order and feeds the rating tracker. The borrower
// order id doubles as the settlement id, which is what makes replays of the
// same settlement detectable downstream.
func (u *Usecase) Complete(ctx context.Context, orderID string, onTime bool) (*CompletionResult, error) {
	release, ok := u.locks.acquire(ctx, orderID, u.lockTimeout)
	if !ok {
		return nil, domain.ErrConcurrentModification
	}
	defer release()

	var (
		borrowerID string
		lenderIDs  []string
	)
	err := u.uow.WithinBorrowerTx(ctx, orderID, func(r uow.Repos, o *domain.BorrowerOrder) error {
		if !o.Status.CanTransitionTo(domain.BorrowerCompleted) {
			return domain.ErrInvalidTransition
		}
		from := o.Status
		o.Status = domain.BorrowerCompleted
		o.StateUpdatedAt = time.Now().UTC()
		if err := r.Borrowers.SaveVersioned(ctx, o); err != nil {
			return err
		}
		if err := r.Transitions.Record(ctx, o.OrderID, string(from), string(o.Status)); err != nil {
			return err
		}
		borrowerID = o.BorrowerID

		commitments, err := r.Commitments.ListByBorrowerOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		party := map[string]bool{}
		for _, c := range commitments {
			l, err := r.Lenders.GetByID(ctx, c.LenderOrderID)
			if err != nil {
				return err
			}
			if !party[l.LenderID] {
				party[l.LenderID] = true
				lenderIDs = append(lenderIDs, l.LenderID)
			}
		}
		sort.Strings(lenderIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// settlement is final once the transition committed; rating events are
	// appended afterwards and replays are rejected by the event log
	settled, err := u.settlements.RecordSettlement(ctx, borrowerID, orderID, onTime)
	if err != nil && !errors.Is(err, ratingDomain.ErrDuplicateSettlement) {
		return nil, err
	}
	increase := 0
	if settled != nil {
		increase = settled.RatingIncrease
	}
	for _, lid := range lenderIDs {
		if _, err := u.settlements.RecordSettlement(ctx, lid, orderID, true); err != nil &&
			!errors.Is(err, ratingDomain.ErrDuplicateSettlement) {
			return nil, err
		}
	}

	return &CompletionResult{
		OrderID:        orderID,
		Status:         string(domain.BorrowerCompleted),
		RatingIncrease: increase,
	}, nil
}

func (u *Usecase) notifyMatched(ctx context.Context, res *MatchResult) {
	if u.sink == nil || res == nil {
		return
	}
	payload := map[string]any{"order_id": res.OrderID, "rate": res.Rate.String()}
	for _, c := range res.Commitments {
		u.sink.Publish(ctx, c.LenderID, notify.EventOrderMatched, payload)
	}
	// borrower sees the full progression
	borrower := map[string]any{
		"order_id":    res.OrderID,
		"schedule_id": res.ScheduleID,
		"rate":        res.Rate.String(),
	}
	u.sink.Publish(ctx, res.BorrowerID, notify.EventOrderMatched, borrower)
	u.sink.Publish(ctx, res.BorrowerID, notify.EventOrderFunded, borrower)
	u.sink.Publish(ctx, res.BorrowerID, notify.EventScheduleReady, borrower)
}
