package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"lending-ledger/pkg/money"
)

var (
	ErrNotFound            = errors.New("loan not found")
	ErrInvalidInput        = errors.New("invalid loan input")
	ErrNotBorrower         = errors.New("borrower role required")
	ErrPendingLoanExists   = errors.New("borrower already has a loan in review")
	ErrImmutable           = errors.New("loan is in a terminal state")
	ErrInvalidTransition   = errors.New("invalid loan state transition")
	ErrHasPaidInstallments = errors.New("loan has settled installments")

	ErrInstallmentNotFound = errors.New("installment not found")
	ErrAlreadyPaid         = errors.New("installment already paid")
	ErrInvalidPenalty      = errors.New("invalid penalty amount")
)

type Status string

const (
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusPaidOff   Status = "paid_off"
	StatusCancelled Status = "cancelled"
)

type Loan struct {
	ID         uint64  `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string  `gorm:"column:loan_id;type:char(32);not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID uint64  `gorm:"column:borrower_id;not null;index:idx_loans_borrower" json:"-"`
	Principal  float64 `gorm:"column:principal;type:decimal(18,2);not null" json:"principal"`
	// Rate is the per-period interest as a fraction (2.5% → 0.025).
	Rate        float64 `gorm:"column:rate;type:decimal(6,4);not null" json:"rate"`
	TermPeriods int     `gorm:"column:term_periods;not null" json:"term_periods"`
	// Invariant: never negative; zero exactly when the loan is paid off
	// (once any settlement has posted).
	OutstandingBalance float64        `gorm:"column:outstanding_balance;type:decimal(18,2);not null" json:"outstanding_balance"`
	Status             Status         `gorm:"column:status;type:enum('in_review','approved','denied','paid_off','cancelled');default:'in_review'" json:"status"`
	OriginationDate    time.Time      `gorm:"column:origination_date;not null" json:"origination_date"`
	DueDate            time.Time      `gorm:"column:due_date;not null" json:"due_date"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Terminal reports whether the loan accepts no further mutation.
func (l *Loan) Terminal() bool {
	return l.Status == StatusPaidOff || l.Status == StatusDenied
}

// NewLoan builds a loan with its derived fields computed up front: the
// outstanding balance is the schedule total (periods × fixed installment),
// so settling every installment lands the balance exactly on zero. No
// persistence hook recomputes anything afterwards.
func NewLoan(loanID string, borrowerID uint64, principal, ratePerPeriod float64, termPeriods int, origination time.Time) *Loan {
	installment := money.Annuity(principal, ratePerPeriod, termPeriods)
	return &Loan{
		LoanID:             loanID,
		BorrowerID:         borrowerID,
		Principal:          principal,
		Rate:               ratePerPeriod,
		TermPeriods:        termPeriods,
		OutstandingBalance: money.Mul(installment, termPeriods),
		Status:             StatusInReview,
		OriginationDate:    origination,
		DueDate:            origination.AddDate(0, termPeriods, 0),
	}
}

type InstallmentStatus string

const (
	InstallmentOpen    InstallmentStatus = "open"
	InstallmentOverdue InstallmentStatus = "overdue"
	InstallmentPaid    InstallmentStatus = "paid"
)

// Installment is one fixed-amount slice of the amortization schedule.
// Amount never changes after creation; paid is terminal.
type Installment struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	InstallmentID string `gorm:"column:installment_id;type:char(32);not null;uniqueIndex:ux_installments_installment_id" json:"installment_id"`
	LoanID        uint64 `gorm:"column:loan_id;not null;index:idx_installments_loan" json:"-"`
	// Sequence is 1-based position in the schedule.
	Sequence  int               `gorm:"column:sequence;not null" json:"sequence"`
	Amount    float64           `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	Penalty   float64           `gorm:"column:penalty;type:decimal(12,2);not null;default:0" json:"penalty"`
	Status    InstallmentStatus `gorm:"column:status;type:enum('open','overdue','paid');default:'open'" json:"status"`
	DueDate   time.Time         `gorm:"column:due_date;not null" json:"due_date"`
	PaidDate  *time.Time        `gorm:"column:paid_date" json:"paid_date,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt    `gorm:"column:deleted_at;index" json:"-"`
}

func (Installment) TableName() string { return "installments" }
