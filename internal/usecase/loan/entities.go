package loan

import (
	"time"

	domain "lending-ledger/internal/domain/loan"
)

type CreateLoanInput struct {
	BorrowerID  string  `json:"borrower_id"`
	Principal   float64 `json:"principal"`
	Rate        float64 `json:"rate"`
	TermPeriods int     `json:"term_periods"`
}

// UpdateLoanInput enumerates the only fields legally mutable on a
// non-terminal loan. Free-form patch merging is deliberately not offered.
type UpdateLoanInput struct {
	Status *domain.Status `json:"status,omitempty"`
}

type InstallmentDTO struct {
	InstallmentID string     `json:"installment_id"`
	Sequence      int        `json:"sequence"`
	Amount        float64    `json:"amount"`
	Penalty       float64    `json:"penalty"`
	Status        string     `json:"status"`
	DueDate       time.Time  `json:"due_date"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
}

type LoanDTO struct {
	LoanID             string           `json:"loan_id"`
	BorrowerID         string           `json:"borrower_id"`
	Principal          float64          `json:"principal"`
	Rate               float64          `json:"rate"`
	TermPeriods        int              `json:"term_periods"`
	OutstandingBalance float64          `json:"outstanding_balance"`
	Status             string           `json:"status"`
	OriginationDate    time.Time        `json:"origination_date"`
	DueDate            time.Time        `json:"due_date"`
	CreatedAt          time.Time        `json:"created_at"`
	Installments       []InstallmentDTO `json:"installments,omitempty"`
}

func toInstallmentDTO(i *domain.Installment) InstallmentDTO {
	return InstallmentDTO{
		InstallmentID: i.InstallmentID,
		Sequence:      i.Sequence,
		Amount:        i.Amount,
		Penalty:       i.Penalty,
		Status:        string(i.Status),
		DueDate:       i.DueDate,
		PaidDate:      i.PaidDate,
	}
}

func toLoanDTO(l *domain.Loan, borrowerPublicID string, items []domain.Installment) *LoanDTO {
	dto := &LoanDTO{
		LoanID:             l.LoanID,
		BorrowerID:         borrowerPublicID,
		Principal:          l.Principal,
		Rate:               l.Rate,
		TermPeriods:        l.TermPeriods,
		OutstandingBalance: l.OutstandingBalance,
		Status:             string(l.Status),
		OriginationDate:    l.OriginationDate,
		DueDate:            l.DueDate,
		CreatedAt:          l.CreatedAt,
	}
	for idx := range items {
		dto.Installments = append(dto.Installments, toInstallmentDTO(&items[idx]))
	}
	return dto
}
