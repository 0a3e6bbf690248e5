package loan

import (
	"fmt"
	"time"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/pkg/id"
	"lending-ledger/pkg/money"
)

// GenerateSchedule materializes the amortization schedule: termPeriods
// installments of one fixed annuity amount, due monthly starting one
// period after origination. Pure — nothing is persisted here.
//
// The rounded installment times the term may drift from the principal by
// a few minor units; that residue is absorbed during settlement, not
// corrected here.
func GenerateSchedule(principal, ratePerPeriod float64, termPeriods int, origination time.Time) ([]*domain.Installment, error) {
	if principal <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive", domain.ErrInvalidInput)
	}
	if ratePerPeriod < 0 {
		return nil, fmt.Errorf("%w: rate must not be negative", domain.ErrInvalidInput)
	}
	if termPeriods <= 0 {
		return nil, fmt.Errorf("%w: term must be positive", domain.ErrInvalidInput)
	}

	amount := money.Annuity(principal, ratePerPeriod, termPeriods)
	out := make([]*domain.Installment, 0, termPeriods)
	for k := 1; k <= termPeriods; k++ {
		out = append(out, &domain.Installment{
			InstallmentID: id.NewID32(),
			Sequence:      k,
			Amount:        amount,
			Status:        domain.InstallmentOpen,
			DueDate:       origination.AddDate(0, k, 0),
		})
	}
	return out, nil
}
