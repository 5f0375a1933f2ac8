package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTerms = errors.New("invalid schedule terms")
	ErrNotFound     = errors.New("schedule not found")
)

// Installment is one row of an amortization plan. Amounts use 2 decimal
// places; Balance is the principal still outstanding after the payment.
type Installment struct {
	ID         uint64          `gorm:"primaryKey;column:id" json:"-"`
	ScheduleID uint64          `gorm:"index:idx_installments_schedule;not null" json:"-"`
	Seq        int             `gorm:"not null" json:"seq"`
	DueDate    time.Time       `gorm:"type:date" json:"due_date"`
	Principal  decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	Interest   decimal.Decimal `gorm:"type:decimal(18,2)" json:"interest"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,2)" json:"balance"`
}

func (Installment) TableName() string { return "installments" }

// PaymentSchedule is created once at match time and immutable thereafter.
// Exactly one exists per funded borrower order.
type PaymentSchedule struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	ScheduleID      string          `gorm:"size:32;uniqueIndex:ux_schedules_schedule_id" json:"schedule_id"`
	BorrowerOrderID uint64          `gorm:"uniqueIndex:ux_schedules_order;not null" json:"-"`
	Principal       decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	AnnualRate      decimal.Decimal `gorm:"type:decimal(6,2)" json:"annual_rate"`
	Installments    []Installment   `gorm:"foreignKey:ScheduleID" json:"installments"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentSchedule) TableName() string { return "payment_schedules" }

type Repository interface {
	Create(ctx context.Context, s *PaymentSchedule) error
	GetByBorrowerOrderID(ctx context.Context, borrowerOrderID uint64) (*PaymentSchedule, error)
}
