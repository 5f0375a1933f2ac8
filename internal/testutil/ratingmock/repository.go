package ratingmock

import (
	"context"
	"sync"

	domain "qloan-backend/internal/domain/rating"
)

// Repo is an in-memory rating store with the same append-once event rule as
// the mysql adapter.
type Repo struct {
	mu      sync.Mutex
	records map[string]domain.Record
	events  []domain.SettlementEvent
}

func New() *Repo { return &Repo{records: make(map[string]domain.Record)} }

func (r *Repo) GetRecord(_ context.Context, partyID string) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[partyID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := rec
	return &out, nil
}

func (r *Repo) SaveRecord(_ context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.PartyID] = *rec
	return nil
}

func (r *Repo) CreateEvent(_ context.Context, e *domain.SettlementEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].PartyID == e.PartyID && r.events[i].SettlementID == e.SettlementID {
			return domain.ErrDuplicateSettlement
		}
	}
	e.ID = uint64(len(r.events) + 1)
	r.events = append(r.events, *e)
	return nil
}

func (r *Repo) ListEvents(_ context.Context, partyID string) ([]*domain.SettlementEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.SettlementEvent
	for i := range r.events {
		if r.events[i].PartyID == partyID {
			cp := r.events[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}
