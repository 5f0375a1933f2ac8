package matching

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommitmentDTO struct {
	LenderOrderID string          `json:"lender_order_id"`
	LenderID      string          `json:"lender_id"`
	Amount        decimal.Decimal `json:"amount"`
}

type MatchResult struct {
	OrderID      string          `json:"order_id"`
	BorrowerID   string          `json:"borrower_id"`
	Status       string          `json:"status"`
	Rate         decimal.Decimal `json:"rate"`
	Commitments  []CommitmentDTO `json:"commitments"`
	ScheduleID   string          `json:"schedule_id"`
	Installments int             `json:"installments"`
	MatchedAt    time.Time       `json:"matched_at"`
}

type CompletionResult struct {
	OrderID        string `json:"order_id"`
	Status         string `json:"status"`
	RatingIncrease int    `json:"rating_increase"`
}
