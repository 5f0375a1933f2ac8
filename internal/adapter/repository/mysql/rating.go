package mysql

import (
	"context"
	"errors"

	ratingDomain "qloan-backend/internal/domain/rating"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct{ db *gorm.DB }

func NewRatingRepository(db *gorm.DB) *RatingRepository { return &RatingRepository{db: db} }

func (r *RatingRepository) GetRecord(ctx context.Context, partyID string) (*ratingDomain.Record, error) {
	var out ratingDomain.Record
	res := r.db.WithContext(ctx).Where("party_id = ?", partyID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, ratingDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *RatingRepository) SaveRecord(ctx context.Context, rec *ratingDomain.Record) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "party_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).
		Create(rec).Error
}

func (r *RatingRepository) CreateEvent(ctx context.Context, e *ratingDomain.SettlementEvent) error {
	// the unique (party, settlement) index enforces append-once
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&ratingDomain.SettlementEvent{}).
		Where("party_id = ? AND settlement_id = ?", e.PartyID, e.SettlementID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ratingDomain.ErrDuplicateSettlement
	}
	err := r.db.WithContext(ctx).Create(e).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ratingDomain.ErrDuplicateSettlement
	}
	return err
}

func (r *RatingRepository) ListEvents(ctx context.Context, partyID string) ([]*ratingDomain.SettlementEvent, error) {
	var out []*ratingDomain.SettlementEvent
	res := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
