package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate takes an exclusive row lock for the duration of
	// the surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	GetPendingLoanByBorrowerID(ctx context.Context, borrowerID uint64) (*Loan, error)
	List(ctx context.Context) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, l *Loan) error
}

type InstallmentRepository interface {
	CreateBatch(ctx context.Context, items []*Installment) error
	GetByInstallmentID(ctx context.Context, installmentID string) (*Installment, error)
	GetByInstallmentIDForUpdate(ctx context.Context, installmentID string) (*Installment, error)
	ListByLoanID(ctx context.Context, loanID uint64) ([]Installment, error)
	CountPaidByLoanID(ctx context.Context, loanID uint64) (int64, error)
	Save(ctx context.Context, i *Installment) error
	// MarkOverdue flips every open installment with due_date < asOf to
	// overdue; returns the number of rows transitioned.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	DeleteByLoanID(ctx context.Context, loanID uint64) error
}
