package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidOrder           = errors.New("invalid order")
	ErrNotFound               = errors.New("order not found")
	ErrInvalidTransition      = errors.New("invalid order state transition")
	ErrInsufficientLiquidity  = errors.New("insufficient liquidity")
	ErrConcurrentModification = errors.New("order modified concurrently")
)

type BorrowerStatus string

const (
	BorrowerOpen      BorrowerStatus = "open"
	BorrowerMatched   BorrowerStatus = "matched"
	BorrowerFunded    BorrowerStatus = "funded"
	BorrowerCompleted BorrowerStatus = "completed"
	BorrowerCancelled BorrowerStatus = "cancelled"
	BorrowerExpired   BorrowerStatus = "expired"
)

// borrowerNext encodes the one-directional state machine:
// open → matched → funded → completed, with cancelled/expired
// reachable from open or matched only. Nothing returns to open.
var borrowerNext = map[BorrowerStatus][]BorrowerStatus{
	BorrowerOpen:    {BorrowerMatched, BorrowerCancelled, BorrowerExpired},
	BorrowerMatched: {BorrowerFunded, BorrowerCancelled, BorrowerExpired},
	BorrowerFunded:  {BorrowerCompleted},
}

func (s BorrowerStatus) CanTransitionTo(next BorrowerStatus) bool {
	for _, n := range borrowerNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

type LenderStatus string

const (
	LenderOpen             LenderStatus = "open"
	LenderPartiallyMatched LenderStatus = "partially_matched"
	LenderFullyMatched     LenderStatus = "fully_matched"
	LenderWithdrawn        LenderStatus = "withdrawn"
)

type BorrowerOrder struct {
	ID             uint64          `gorm:"primaryKey;column:id" json:"-"`
	OrderID        string          `gorm:"size:32;uniqueIndex:ux_borrower_orders_order_id" json:"order_id"`
	BorrowerID     string          `gorm:"size:32;index:idx_borrower_orders_party" json:"borrower_id"`
	Principal      decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	DurationMonths int             `gorm:"column:duration_months" json:"duration_months"`
	MaxRate        decimal.Decimal `gorm:"type:decimal(6,2)" json:"max_rate"`
	Status         BorrowerStatus  `gorm:"size:16;index;default:'open'" json:"status"`
	Version        uint64          `gorm:"default:0" json:"-"`
	StateUpdatedAt time.Time       `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (BorrowerOrder) TableName() string { return "borrower_orders" }

func (o *BorrowerOrder) Cancellable() bool { return o.Status == BorrowerOpen }

type LenderOrder struct {
	ID             uint64          `gorm:"primaryKey;column:id" json:"-"`
	OrderID        string          `gorm:"size:32;uniqueIndex:ux_lender_orders_order_id" json:"order_id"`
	LenderID       string          `gorm:"size:32;index:idx_lender_orders_party" json:"lender_id"`
	Offered        decimal.Decimal `gorm:"type:decimal(18,2)" json:"offered"`
	Remaining      decimal.Decimal `gorm:"type:decimal(18,2)" json:"remaining"`
	MinRate        decimal.Decimal `gorm:"type:decimal(6,2)" json:"min_rate"`
	Status         LenderStatus    `gorm:"size:20;index;default:'open'" json:"status"`
	Version        uint64          `gorm:"default:0" json:"-"`
	StateUpdatedAt time.Time       `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (LenderOrder) TableName() string { return "lender_orders" }

func (o *LenderOrder) Cancellable() bool {
	return o.Status == LenderOpen || o.Status == LenderPartiallyMatched
}

// Commitment ties part of a lender order's funds to one borrower order.
// Rows are only ever created inside the match transaction.
type Commitment struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	BorrowerOrderID uint64          `gorm:"index;not null" json:"-"`
	LenderOrderID   uint64          `gorm:"index;not null" json:"-"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Rate            decimal.Decimal `gorm:"type:decimal(6,2)" json:"rate"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Commitment) TableName() string { return "commitments" }

// Transition is the audit trail row written for every status change.
type Transition struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	OrderID   string    `gorm:"size:32;index:idx_transitions_order"`
	From      string    `gorm:"size:20;column:from_status"`
	To        string    `gorm:"size:20;column:to_status"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Transition) TableName() string { return "order_transitions" }
