package ordermock

import (
	"context"
	"sync"
	"time"

	domain "qloan-backend/internal/domain/order"
)

// In-memory repositories backed by maps. SaveVersioned enforces the same
// optimistic-version rule as the mysql adapter, so conflict paths behave the
// same way in tests.

type BorrowerRepo struct {
	mu   sync.Mutex
	seq  uint64
	rows map[uint64]domain.BorrowerOrder
}

func NewBorrowerRepo() *BorrowerRepo {
	return &BorrowerRepo{rows: make(map[uint64]domain.BorrowerOrder)}
}

func (r *BorrowerRepo) Create(_ context.Context, o *domain.BorrowerOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	o.ID = r.seq
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	r.rows[o.ID] = *o
	return nil
}

func (r *BorrowerRepo) GetByOrderID(_ context.Context, orderID string) (*domain.BorrowerOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.OrderID == orderID {
			out := row
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *BorrowerRepo) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*domain.BorrowerOrder, error) {
	return r.GetByOrderID(ctx, orderID)
}

func (r *BorrowerRepo) ListByStatus(_ context.Context, status domain.BorrowerStatus) ([]*domain.BorrowerOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.BorrowerOrder
	for id := uint64(1); id <= r.seq; id++ {
		if row, ok := r.rows[id]; ok && row.Status == status {
			cp := row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *BorrowerRepo) List(_ context.Context) ([]*domain.BorrowerOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.BorrowerOrder
	for id := uint64(1); id <= r.seq; id++ {
		if row, ok := r.rows[id]; ok {
			cp := row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *BorrowerRepo) SaveVersioned(_ context.Context, o *domain.BorrowerOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != o.Version {
		return domain.ErrConcurrentModification
	}
	o.Version++
	r.rows[o.ID] = *o
	return nil
}

type LenderRepo struct {
	mu   sync.Mutex
	seq  uint64
	rows map[uint64]domain.LenderOrder
}

func NewLenderRepo() *LenderRepo {
	return &LenderRepo{rows: make(map[uint64]domain.LenderOrder)}
}

func (r *LenderRepo) Create(_ context.Context, o *domain.LenderOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	o.ID = r.seq
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	r.rows[o.ID] = *o
	return nil
}

func (r *LenderRepo) GetByOrderID(_ context.Context, orderID string) (*domain.LenderOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.OrderID == orderID {
			out := row
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *LenderRepo) GetByID(_ context.Context, id uint64) (*domain.LenderOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := row
	return &out, nil
}

func (r *LenderRepo) ListByStatus(_ context.Context, statuses ...domain.LenderStatus) ([]*domain.LenderOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[domain.LenderStatus]bool{}
	for _, s := range statuses {
		want[s] = true
	}
	var out []*domain.LenderOrder
	for id := uint64(1); id <= r.seq; id++ {
		if row, ok := r.rows[id]; ok && want[row.Status] {
			cp := row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *LenderRepo) List(_ context.Context) ([]*domain.LenderOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.LenderOrder
	for id := uint64(1); id <= r.seq; id++ {
		if row, ok := r.rows[id]; ok {
			cp := row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *LenderRepo) SaveVersioned(_ context.Context, o *domain.LenderOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != o.Version {
		return domain.ErrConcurrentModification
	}
	o.Version++
	r.rows[o.ID] = *o
	return nil
}

type CommitmentRepo struct {
	mu   sync.Mutex
	seq  uint64
	rows []domain.Commitment
}

func NewCommitmentRepo() *CommitmentRepo { return &CommitmentRepo{} }

func (r *CommitmentRepo) Create(_ context.Context, c *domain.Commitment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = r.seq
	r.rows = append(r.rows, *c)
	return nil
}

func (r *CommitmentRepo) ListByBorrowerOrder(_ context.Context, borrowerOrderID uint64) ([]*domain.Commitment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Commitment
	for i := range r.rows {
		if r.rows[i].BorrowerOrderID == borrowerOrderID {
			cp := r.rows[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type TransitionRepo struct {
	mu   sync.Mutex
	rows []domain.Transition
}

func NewTransitionRepo() *TransitionRepo { return &TransitionRepo{} }

func (r *TransitionRepo) Record(_ context.Context, orderID, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, domain.Transition{OrderID: orderID, From: from, To: to, CreatedAt: time.Now().UTC()})
	return nil
}

func (r *TransitionRepo) ListByOrder(_ context.Context, orderID string) ([]*domain.Transition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Transition
	for i := range r.rows {
		if r.rows[i].OrderID == orderID {
			cp := r.rows[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}
