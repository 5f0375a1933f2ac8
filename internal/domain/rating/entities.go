package rating

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateSettlement = errors.New("settlement already recorded")
	ErrNotFound            = errors.New("rating record not found")
)

const (
	// InitialScore is assumed for parties with no settlement history.
	InitialScore = 50
	// StepOnTime is the fixed increase for an on-time settlement.
	StepOnTime = 5
	// StepLate is subtracted for a late or defaulted settlement.
	StepLate = 15
	// MinScore is the clamp floor; scores never go below it.
	MinScore = 0
)

// Record is the materialized current score for one party. The settlement
// event log is the source of truth; Record is derivable by replay.
type Record struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	PartyID   string    `gorm:"size:32;uniqueIndex:ux_ratings_party" json:"party_id"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Record) TableName() string { return "ratings" }

// SettlementEvent rows are append-only; the unique (party, settlement)
// index is what makes reprocessing idempotent.
type SettlementEvent struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	PartyID      string    `gorm:"size:32;uniqueIndex:ux_settlements_party_settlement" json:"party_id"`
	SettlementID string    `gorm:"size:32;uniqueIndex:ux_settlements_party_settlement" json:"settlement_id"`
	OnTime       bool      `gorm:"not null" json:"on_time"`
	Applied      int       `gorm:"not null" json:"applied"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SettlementEvent) TableName() string { return "settlement_events" }

// Step returns the signed score delta for a settlement outcome.
func Step(onTime bool) int {
	if onTime {
		return StepOnTime
	}
	return -StepLate
}

// Clamp applies the score floor.
func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	return score
}

// Replay derives a score from an event log, for audit checks.
func Replay(events []*SettlementEvent) int {
	score := InitialScore
	for _, e := range events {
		score = Clamp(score + e.Applied)
	}
	return score
}

type Repository interface {
	// GetRecord returns ErrNotFound for parties with no history.
	GetRecord(ctx context.Context, partyID string) (*Record, error)
	SaveRecord(ctx context.Context, r *Record) error
	// CreateEvent returns ErrDuplicateSettlement when the (party, settlement)
	// pair was already appended.
	CreateEvent(ctx context.Context, e *SettlementEvent) error
	ListEvents(ctx context.Context, partyID string) ([]*SettlementEvent, error)
}
