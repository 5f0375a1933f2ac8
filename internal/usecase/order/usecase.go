package order

import (
	"context"
	"time"

	domain "qloan-backend/internal/domain/order"
	"qloan-backend/internal/domain/rating"
	"qloan-backend/internal/domain/uow"
	"qloan-backend/pkg/id"

	"github.com/shopspring/decimal"
)

// MaxAllowedRate caps acceptable annual percentages on submission.
var MaxAllowedRate = decimal.NewFromInt(100)

// RatingReader is the slice of the rating tracker the store needs for
// rating-ordered listings.
type RatingReader interface {
	CurrentRating(ctx context.Context, partyID string) (int, error)
}

type Usecase struct {
	borrowers   domain.BorrowerRepository
	lenders     domain.LenderRepository
	transitions domain.TransitionRepository
	ratings     RatingReader
	uow         uow.UnitOfWork
}

func NewUsecase(b domain.BorrowerRepository, l domain.LenderRepository, t domain.TransitionRepository, ratings RatingReader, tx uow.UnitOfWork) *Usecase {
	return &Usecase{borrowers: b, lenders: l, transitions: t, ratings: ratings, uow: tx}
}

func validRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(MaxAllowedRate)
}

func (u *Usecase) SubmitBorrower(ctx context.Context, in SubmitBorrowerInput) (*BorrowerOrderDTO, error) {
	if in.BorrowerID == "" || len(in.BorrowerID) != 32 ||
		!in.Principal.IsPositive() || in.DurationMonths <= 0 || !validRate(in.MaxRate) {
		return nil, domain.ErrInvalidOrder
	}

	o := &domain.BorrowerOrder{
		OrderID:        id.NewID32(),
		BorrowerID:     in.BorrowerID,
		Principal:      in.Principal,
		DurationMonths: in.DurationMonths,
		MaxRate:        in.MaxRate,
		Status:         domain.BorrowerOpen,
		StateUpdatedAt: time.Now().UTC(),
	}
	if err := u.borrowers.Create(ctx, o); err != nil {
		return nil, err
	}
	if err := u.transitions.Record(ctx, o.OrderID, "", string(domain.BorrowerOpen)); err != nil {
		return nil, err
	}

	return borrowerDTO(o), nil
}

func (u *Usecase) SubmitLender(ctx context.Context, in SubmitLenderInput) (*LenderOrderDTO, error) {
	if in.LenderID == "" || len(in.LenderID) != 32 ||
		!in.Offered.IsPositive() || !validRate(in.MinRate) {
		return nil, domain.ErrInvalidOrder
	}

	o := &domain.LenderOrder{
		OrderID:        id.NewID32(),
		LenderID:       in.LenderID,
		Offered:        in.Offered,
		Remaining:      in.Offered,
		MinRate:        in.MinRate,
		Status:         domain.LenderOpen,
		StateUpdatedAt: time.Now().UTC(),
	}
	if err := u.lenders.Create(ctx, o); err != nil {
		return nil, err
	}
	if err := u.transitions.Record(ctx, o.OrderID, "", string(domain.LenderOpen)); err != nil {
		return nil, err
	}

	return lenderDTO(o), nil
}

// ListBorrowers re-reads the store on every call, so the sequence is
// restartable and reflects a consistent snapshot.
func (u *Usecase) ListBorrowers(ctx context.Context, key domain.SortKey, f ListFilter) ([]*BorrowerOrderDTO, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidOrder
	}
	var (
		orders []*domain.BorrowerOrder
		err    error
	)
	if f.OnlyOpen {
		orders, err = u.borrowers.ListByStatus(ctx, domain.BorrowerOpen)
	} else {
		orders, err = u.borrowers.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	if f.PartyID != "" {
		orders = filterBorrowers(orders, f.PartyID)
	}

	sortBorrowers(orders, key, u.ratingOf(ctx))

	if f.MaxResults > 0 && len(orders) > f.MaxResults {
		orders = orders[:f.MaxResults]
	}
	out := make([]*BorrowerOrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, borrowerDTO(o))
	}
	return out, nil
}

func (u *Usecase) ListLenders(ctx context.Context, key domain.SortKey, f ListFilter) ([]*LenderOrderDTO, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidOrder
	}
	var (
		orders []*domain.LenderOrder
		err    error
	)
	if f.OnlyOpen {
		orders, err = u.lenders.ListByStatus(ctx, domain.LenderOpen, domain.LenderPartiallyMatched)
	} else {
		orders, err = u.lenders.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	if f.PartyID != "" {
		orders = filterLenders(orders, f.PartyID)
	}

	sortLenders(orders, key, u.ratingOf(ctx))

	if f.MaxResults > 0 && len(orders) > f.MaxResults {
		orders = orders[:f.MaxResults]
	}
	out := make([]*LenderOrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, lenderDTO(o))
	}
	return out, nil
}

// CancelBorrower moves an open borrower order to cancelled.
func (u *Usecase) CancelBorrower(ctx context.Context, orderID string) (*BorrowerOrderDTO, error) {
	var dto *BorrowerOrderDTO
	err := u.uow.WithinBorrowerTx(ctx, orderID, func(r uow.Repos, o *domain.BorrowerOrder) error {
		if !o.Cancellable() {
			return domain.ErrInvalidTransition
		}
		from := o.Status
		o.Status = domain.BorrowerCancelled
		o.StateUpdatedAt = time.Now().UTC()
		if err := r.Borrowers.SaveVersioned(ctx, o); err != nil {
			return err
		}
		if err := r.Transitions.Record(ctx, o.OrderID, string(from), string(o.Status)); err != nil {
			return err
		}
		dto = borrowerDTO(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// CancelLender withdraws a lender order; only open or partially matched
// orders are cancellable, and already committed funds stay committed.
func (u *Usecase) CancelLender(ctx context.Context, orderID string) (*LenderOrderDTO, error) {
	var dto *LenderOrderDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		o, err := r.Lenders.GetByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.Cancellable() {
			return domain.ErrInvalidTransition
		}
		from := o.Status
		o.Status = domain.LenderWithdrawn
		o.Remaining = decimal.Zero
		o.StateUpdatedAt = time.Now().UTC()
		if err := r.Lenders.SaveVersioned(ctx, o); err != nil {
			return err
		}
		if err := r.Transitions.Record(ctx, o.OrderID, string(from), string(o.Status)); err != nil {
			return err
		}
		dto = lenderDTO(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) GetBorrower(ctx context.Context, orderID string) (*BorrowerOrderDTO, error) {
	o, err := u.borrowers.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return borrowerDTO(o), nil
}

// ratingOf snapshots rating lookups for one listing call; missing parties
// fall back to the initial score so sorting never fails a listing.
func (u *Usecase) ratingOf(ctx context.Context) func(partyID string) int {
	cache := map[string]int{}
	return func(partyID string) int {
		if s, ok := cache[partyID]; ok {
			return s
		}
		s, err := u.ratings.CurrentRating(ctx, partyID)
		if err != nil {
			s = rating.InitialScore
		}
		cache[partyID] = s
		return s
	}
}

func filterBorrowers(in []*domain.BorrowerOrder, partyID string) []*domain.BorrowerOrder {
	out := in[:0]
	for _, o := range in {
		if o.BorrowerID == partyID {
			out = append(out, o)
		}
	}
	return out
}

func filterLenders(in []*domain.LenderOrder, partyID string) []*domain.LenderOrder {
	out := in[:0]
	for _, o := range in {
		if o.LenderID == partyID {
			out = append(out, o)
		}
	}
	return out
}

func borrowerDTO(o *domain.BorrowerOrder) *BorrowerOrderDTO {
	return &BorrowerOrderDTO{
		OrderID:        o.OrderID,
		BorrowerID:     o.BorrowerID,
		Principal:      o.Principal,
		DurationMonths: o.DurationMonths,
		MaxRate:        o.MaxRate,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt,
	}
}

func lenderDTO(o *domain.LenderOrder) *LenderOrderDTO {
	return &LenderOrderDTO{
		OrderID:   o.OrderID,
		LenderID:  o.LenderID,
		Offered:   o.Offered,
		Remaining: o.Remaining,
		MinRate:   o.MinRate,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}
