package schedulemock

import (
	"context"
	"sync"

	domain "qloan-backend/internal/domain/schedule"
)

type Repo struct {
	mu   sync.Mutex
	seq  uint64
	rows []domain.PaymentSchedule
}

func New() *Repo { return &Repo{} }

func (r *Repo) Create(_ context.Context, s *domain.PaymentSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	s.ID = r.seq
	r.rows = append(r.rows, *s)
	return nil
}

func (r *Repo) GetByBorrowerOrderID(_ context.Context, borrowerOrderID uint64) (*domain.PaymentSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].BorrowerOrderID == borrowerOrderID {
			cp := r.rows[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
