package schedule

import (
	"context"
	"time"

	orderDomain "qloan-backend/internal/domain/order"
	domain "qloan-backend/internal/domain/schedule"

	"github.com/shopspring/decimal"
)

type Usecase struct {
	borrowers orderDomain.BorrowerRepository
	schedules domain.Repository
}

func NewUsecase(borrowers orderDomain.BorrowerRepository, schedules domain.Repository) *Usecase {
	return &Usecase{borrowers: borrowers, schedules: schedules}
}

type InstallmentDTO struct {
	Seq       int             `json:"seq"`
	DueDate   time.Time       `json:"due_date"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

type ScheduleDTO struct {
	ScheduleID   string           `json:"schedule_id"`
	OrderID      string           `json:"order_id"`
	Principal    decimal.Decimal  `json:"principal"`
	AnnualRate   decimal.Decimal  `json:"annual_rate"`
	Installments []InstallmentDTO `json:"installments"`
}

// GetByOrderID resolves the public borrower order id to its plan.
func (u *Usecase) GetByOrderID(ctx context.Context, orderID string) (*ScheduleDTO, error) {
	o, err := u.borrowers.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s, err := u.schedules.GetByBorrowerOrderID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	out := &ScheduleDTO{
		ScheduleID:   s.ScheduleID,
		OrderID:      o.OrderID,
		Principal:    s.Principal,
		AnnualRate:   s.AnnualRate,
		Installments: make([]InstallmentDTO, 0, len(s.Installments)),
	}
	for _, i := range s.Installments {
		out.Installments = append(out.Installments, InstallmentDTO{
			Seq:       i.Seq,
			DueDate:   i.DueDate,
			Principal: i.Principal,
			Interest:  i.Interest,
			Balance:   i.Balance,
		})
	}
	return out, nil
}
