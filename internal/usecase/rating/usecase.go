package rating

import (
	"context"
	"errors"
	"log"
	"time"

	"qloan-backend/internal/domain/notify"
	domain "qloan-backend/internal/domain/rating"
)

type Usecase struct {
	repo domain.Repository
	sink notify.Sink
}

func NewUsecase(repo domain.Repository, sink notify.Sink) *Usecase {
	return &Usecase{repo: repo, sink: sink}
}

type SettlementResult struct {
	PartyID string `json:"party_id"`
	// RatingIncrease is the non-negative delta applied on success; a late
	// settlement reports 0 here, the penalty shows up in Score.
	RatingIncrease int `json:"rating_increase"`
	Score          int `json:"score"`
}

// RecordSettlement appends one settlement event and moves the materialized
// score. Replaying the same (party, settlement) pair is rejected with
// ErrDuplicateSettlement and leaves the score untouched.
func (u *Usecase) RecordSettlement(ctx context.Context, partyID, settlementID string, onTime bool) (*SettlementResult, error) {
	if partyID == "" || len(partyID) != 32 || settlementID == "" {
		return nil, domain.ErrNotFound
	}

	delta := domain.Step(onTime)
	if err := u.repo.CreateEvent(ctx, &domain.SettlementEvent{
		PartyID:      partyID,
		SettlementID: settlementID,
		OnTime:       onTime,
		Applied:      delta,
	}); err != nil {
		return nil, err
	}

	rec, err := u.repo.GetRecord(ctx, partyID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		rec = &domain.Record{PartyID: partyID, Score: domain.InitialScore}
	case err != nil:
		return nil, err
	}
	rec.Score = domain.Clamp(rec.Score + delta)
	rec.UpdatedAt = time.Now().UTC()
	if err := u.repo.SaveRecord(ctx, rec); err != nil {
		return nil, err
	}

	increase := 0
	if delta > 0 {
		increase = delta
	}
	if u.sink != nil {
		u.sink.Publish(ctx, partyID, notify.EventRatingChanged, map[string]any{
			"score":    rec.Score,
			"increase": increase,
		})
	}
	return &SettlementResult{PartyID: partyID, RatingIncrease: increase, Score: rec.Score}, nil
}

// CurrentRating is a pure read; unknown parties get the initial score.
func (u *Usecase) CurrentRating(ctx context.Context, partyID string) (int, error) {
	rec, err := u.repo.GetRecord(ctx, partyID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.InitialScore, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.Score, nil
}

// Audit replays the event log and compares it against the materialized
// score, logging any drift. Used by operational checks, never by matching.
func (u *Usecase) Audit(ctx context.Context, partyID string) (bool, error) {
	events, err := u.repo.ListEvents(ctx, partyID)
	if err != nil {
		return false, err
	}
	derived := domain.Replay(events)
	current, err := u.CurrentRating(ctx, partyID)
	if err != nil {
		return false, err
	}
	if derived != current {
		log.Printf("rating audit mismatch for %s: derived=%d current=%d", partyID, derived, current)
		return false, nil
	}
	return true, nil
}
