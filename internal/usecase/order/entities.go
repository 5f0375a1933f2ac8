package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmitBorrowerInput struct {
	BorrowerID     string          `json:"borrower_id"`
	Principal      decimal.Decimal `json:"principal"`
	DurationMonths int             `json:"duration_months"`
	MaxRate        decimal.Decimal `json:"max_rate"`
}

type SubmitLenderInput struct {
	LenderID string          `json:"lender_id"`
	Offered  decimal.Decimal `json:"offered"`
	MinRate  decimal.Decimal `json:"min_rate"`
}

type BorrowerOrderDTO struct {
	OrderID        string          `json:"order_id"`
	BorrowerID     string          `json:"borrower_id"`
	Principal      decimal.Decimal `json:"principal"`
	DurationMonths int             `json:"duration_months"`
	MaxRate        decimal.Decimal `json:"max_rate"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

type LenderOrderDTO struct {
	OrderID   string          `json:"order_id"`
	LenderID  string          `json:"lender_id"`
	Offered   decimal.Decimal `json:"offered"`
	Remaining decimal.Decimal `json:"remaining"`
	MinRate   decimal.Decimal `json:"min_rate"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListFilter narrows listings; zero value means no filtering.
type ListFilter struct {
	PartyID    string
	OnlyOpen   bool
	MaxResults int
}
