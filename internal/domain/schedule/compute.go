package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Compute builds an annuity plan: equal total installments (principal+interest)
// except the last one, which absorbs the rounding remainder so that the
// principal components sum to the input principal exactly.
//
// annualRate is a percentage (e.g. 10 means 10% per year). A zero rate
// degenerates to an equal principal split with no interest.
func Compute(principal, annualRate decimal.Decimal, durationMonths int, start time.Time) ([]Installment, error) {
	if durationMonths <= 0 || annualRate.IsNegative() || !principal.IsPositive() {
		return nil, ErrInvalidTerms
	}

	monthlyRate := annualRate.Div(hundred).Div(twelve)
	payment := annuityPayment(principal, monthlyRate, durationMonths)

	out := make([]Installment, 0, durationMonths)
	balance := principal
	for i := 1; i <= durationMonths; i++ {
		interest := balance.Mul(monthlyRate).Round(2)
		var principalPart decimal.Decimal
		if i == durationMonths {
			// remainder lands here, cumulative principal == input principal
			principalPart = balance
		} else {
			principalPart = payment.Sub(interest)
			if principalPart.GreaterThan(balance) {
				principalPart = balance
			}
		}
		balance = balance.Sub(principalPart)
		out = append(out, Installment{
			Seq:       i,
			DueDate:   start.AddDate(0, i, 0),
			Principal: principalPart,
			Interest:  interest,
			Balance:   balance,
		})
	}
	return out, nil
}

// annuityPayment is the standard amortization formula
// P*r*(1+r)^n / ((1+r)^n - 1), rounded to 2 decimal places.
func annuityPayment(principal, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	if monthlyRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(months))).Round(2)
	}
	factor := decimal.NewFromInt(1).Add(monthlyRate).Pow(decimal.NewFromInt(int64(months)))
	return principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))).Round(2)
}
