package uow

import (
	"context"
	"errors"

	"lending-ledger/internal/domain/investment"
	"lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/user"
)

// ErrConflict wraps lock-wait timeouts and deadlock aborts reported by the
// store. Engine operations leave no partial state on failure, so a caller
// that sees this error may safely retry the whole operation.
var ErrConflict = errors.New("transaction conflict")

type Repos struct {
	Users        user.Repository
	Investments  investment.Repository
	Applications investment.ApplicationRepository
	Loans        loan.Repository
	Installments loan.InstallmentRepository
}

type UnitOfWork interface {
	// WithinTx runs fn inside one atomic transaction; any error rolls the
	// whole transaction back.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row up-front, then runs fn.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
