package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/uow"
	"lending-ledger/internal/domain/user"
	"lending-ledger/pkg/id"
)

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// Create validates the borrower, enforces the one-open-application rule
// and persists the loan together with its full amortization schedule in a
// single transaction. The pending-loan lookup runs inside that same
// transaction so two concurrent requests cannot both pass the check.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	// Input-shape failures are rejected before any lock is taken.
	if in.Principal <= 0 || in.Rate < 0 || in.TermPeriods <= 0 {
		return nil, fmt.Errorf("%w: principal > 0, rate >= 0, term > 0 required", domain.ErrInvalidInput)
	}

	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		borrower, err := r.Users.GetByUserID(ctx, in.BorrowerID)
		if err != nil {
			return err
		}
		if borrower.Role != user.RoleBorrower {
			return domain.ErrNotBorrower
		}

		pending, err := r.Loans.GetPendingLoanByBorrowerID(ctx, borrower.ID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", domain.ErrPendingLoanExists, pending.LoanID)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		now := time.Now().UTC()
		l := domain.NewLoan(id.NewID32(), borrower.ID, in.Principal, in.Rate, in.TermPeriods, now)
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		items, err := GenerateSchedule(in.Principal, in.Rate, in.TermPeriods, now)
		if err != nil {
			return err
		}
		for _, it := range items {
			it.LoanID = l.ID
		}
		if err := r.Installments.CreateBatch(ctx, items); err != nil {
			return err
		}

		persisted := make([]domain.Installment, 0, len(items))
		for _, it := range items {
			persisted = append(persisted, *it)
		}
		dto = toLoanDTO(l, borrower.UserID, persisted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		borrower, err := r.Users.GetByID(ctx, l.BorrowerID)
		if err != nil {
			return err
		}
		items, err := r.Installments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		dto = toLoanDTO(l, borrower.UserID, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) List(ctx context.Context) ([]LoanDTO, error) {
	var out []LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.List(ctx)
		if err != nil {
			return err
		}
		for i := range loans {
			borrower, err := r.Users.GetByID(ctx, loans[i].BorrowerID)
			if err != nil {
				return err
			}
			out = append(out, *toLoanDTO(&loans[i], borrower.UserID, nil))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// statusTransitions are the administrative moves available through Update.
// paid_off is reachable only through settlement.
var statusTransitions = map[domain.Status][]domain.Status{
	domain.StatusInReview: {domain.StatusApproved, domain.StatusDenied, domain.StatusCancelled},
	domain.StatusApproved: {domain.StatusCancelled},
}

func transitionAllowed(from, to domain.Status) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Update applies an explicit patch to a non-terminal loan.
func (u *Usecase) Update(ctx context.Context, loanID string, in UpdateLoanInput) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Terminal() {
			return domain.ErrImmutable
		}
		if in.Status != nil {
			if !transitionAllowed(l.Status, *in.Status) {
				return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, l.Status, *in.Status)
			}
			l.Status = *in.Status
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		borrower, err := r.Users.GetByID(ctx, l.BorrowerID)
		if err != nil {
			return err
		}
		dto = toLoanDTO(l, borrower.UserID, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Delete removes a loan and its schedule. Settlement history is
// preserved: a loan with any paid installment cannot be deleted.
func (u *Usecase) Delete(ctx context.Context, loanID string) error {
	return u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Terminal() {
			return domain.ErrImmutable
		}
		paid, err := r.Installments.CountPaidByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		if paid > 0 {
			return domain.ErrHasPaidInstallments
		}
		if err := r.Installments.DeleteByLoanID(ctx, l.ID); err != nil {
			return err
		}
		return r.Loans.Delete(ctx, l)
	})
}
