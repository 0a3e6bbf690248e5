package payment

import (
	"time"

	domainLoan "lending-ledger/internal/domain/loan"
)

type InstallmentDTO struct {
	InstallmentID string     `json:"installment_id"`
	Sequence      int        `json:"sequence"`
	Amount        float64    `json:"amount"`
	Penalty       float64    `json:"penalty"`
	Status        string     `json:"status"`
	DueDate       time.Time  `json:"due_date"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
}

// SettlementDTO is the pair of records a settlement mutates together.
type SettlementDTO struct {
	Installment InstallmentDTO `json:"installment"`
	LoanID      string         `json:"loan_id"`
	Outstanding float64        `json:"outstanding_balance"`
	LoanStatus  string         `json:"loan_status"`
}

func toInstallmentDTO(i *domainLoan.Installment) InstallmentDTO {
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
