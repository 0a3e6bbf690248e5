package memuow

import (
	"context"
	"time"

	"lending-ledger/internal/domain/investment"
	"lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/user"
)

// The repos below operate on the transaction's state copy. For the fake,
// ForUpdate variants are the plain lookups: exclusion is provided by the
// store-wide transaction mutex.

type userRepo struct{ s *state }

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	r.s.nextID++
	u.ID = r.s.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.s.users[u.ID] = *u
	r.s.userIDs[u.UserID] = u.ID
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	id, ok := r.s.userIDs[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*user.User, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *userRepo) Save(ctx context.Context, u *user.User) error {
	if _, ok := r.s.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	r.s.users[u.ID] = *u
	return nil
}

type investmentRepo struct{ s *state }

func (r *investmentRepo) Create(ctx context.Context, inv *investment.Investment) error {
	r.s.nextID++
	inv.ID = r.s.nextID
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	r.s.investments[inv.ID] = *inv
	r.s.investmentIDs[inv.InvestmentID] = inv.ID
	return nil
}

func (r *investmentRepo) GetByInvestmentID(ctx context.Context, investmentID string) (*investment.Investment, error) {
	id, ok := r.s.investmentIDs[investmentID]
	if !ok {
		return nil, investment.ErrNotFound
	}
	inv := r.s.investments[id]
	return &inv, nil
}

func (r *investmentRepo) GetByInvestmentIDForUpdate(ctx context.Context, investmentID string) (*investment.Investment, error) {
	return r.GetByInvestmentID(ctx, investmentID)
}

func (r *investmentRepo) Save(ctx context.Context, inv *investment.Investment) error {
	if _, ok := r.s.investments[inv.ID]; !ok {
		return investment.ErrNotFound
	}
	r.s.investments[inv.ID] = *inv
	return nil
}

func (r *investmentRepo) AddInvestor(ctx context.Context, investmentID, userID uint64) error {
	r.s.members[memberKey(investmentID, userID)] = struct{}{}
	return nil
}

func (r *investmentRepo) ListInvestorIDs(ctx context.Context, investmentID uint64) ([]uint64, error) {
	var out []uint64
	for id := range r.s.users {
		if _, ok := r.s.members[memberKey(investmentID, id)]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

type applicationRepo struct{ s *state }

func (r *applicationRepo) Create(ctx context.Context, a *investment.Application) error {
	r.s.nextID++
	a.ID = r.s.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.s.applications = append(r.s.applications, *a)
	return nil
}

func (r *applicationRepo) ListByInvestmentID(ctx context.Context, investmentID uint64) ([]investment.Application, error) {
	var out []investment.Application
	for i := len(r.s.applications) - 1; i >= 0; i-- {
		if r.s.applications[i].InvestmentID == investmentID {
			out = append(out, r.s.applications[i])
		}
	}
	return out, nil
}

func (r *applicationRepo) SumByInvestmentID(ctx context.Context, investmentID uint64) (float64, error) {
	var total float64
	for i := range r.s.applications {
		if r.s.applications[i].InvestmentID == investmentID {
			total += r.s.applications[i].Amount
		}
	}
	return total, nil
}

type loanRepo struct{ s *state }

func (r *loanRepo) Create(ctx context.Context, l *loan.Loan) error {
	r.s.nextID++
	l.ID = r.s.nextID
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	r.s.loans[l.ID] = *l
	r.s.loanIDs[l.LoanID] = l.ID
	return nil
}

func (r *loanRepo) GetByLoanID(ctx context.Context, loanID string) (*loan.Loan, error) {
	id, ok := r.s.loanIDs[loanID]
	if !ok {
		return nil, loan.ErrNotFound
	}
	l := r.s.loans[id]
	return &l, nil
}

func (r *loanRepo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loan.Loan, error) {
	return r.GetByLoanID(ctx, loanID)
}

func (r *loanRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*loan.Loan, error) {
	l, ok := r.s.loans[id]
	if !ok {
		return nil, loan.ErrNotFound
	}
	return &l, nil
}

func (r *loanRepo) GetPendingLoanByBorrowerID(ctx context.Context, borrowerID uint64) (*loan.Loan, error) {
	for _, l := range r.s.loans {
		if l.BorrowerID == borrowerID && l.Status == loan.StatusInReview {
			out := l
			return &out, nil
		}
	}
	return nil, loan.ErrNotFound
}

func (r *loanRepo) List(ctx context.Context) ([]loan.Loan, error) {
	var out []loan.Loan
	for _, l := range r.s.loans {
		out = append(out, l)
	}
	return out, nil
}

func (r *loanRepo) Save(ctx context.Context, l *loan.Loan) error {
	if _, ok := r.s.loans[l.ID]; !ok {
		return loan.ErrNotFound
	}
	r.s.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) Delete(ctx context.Context, l *loan.Loan) error {
	if _, ok := r.s.loans[l.ID]; !ok {
		return loan.ErrNotFound
	}
	delete(r.s.loans, l.ID)
	delete(r.s.loanIDs, l.LoanID)
	return nil
}

type installmentRepo struct{ s *state }

func (r *installmentRepo) CreateBatch(ctx context.Context, items []*loan.Installment) error {
	for _, it := range items {
		r.s.nextID++
		it.ID = r.s.nextID
		if it.CreatedAt.IsZero() {
			it.CreatedAt = time.Now().UTC()
		}
		r.s.installments[it.ID] = *it
		r.s.installmentIDs[it.InstallmentID] = it.ID
	}
	return nil
}

func (r *installmentRepo) GetByInstallmentID(ctx context.Context, installmentID string) (*loan.Installment, error) {
	id, ok := r.s.installmentIDs[installmentID]
	if !ok {
		return nil, loan.ErrInstallmentNotFound
	}
	i := r.s.installments[id]
	return &i, nil
}

func (r *installmentRepo) GetByInstallmentIDForUpdate(ctx context.Context, installmentID string) (*loan.Installment, error) {
	return r.GetByInstallmentID(ctx, installmentID)
}

func (r *installmentRepo) ListByLoanID(ctx context.Context, loanID uint64) ([]loan.Installment, error) {
	var out []loan.Installment
	for seq := 1; ; seq++ {
		found := false
		for _, i := range r.s.installments {
			if i.LoanID == loanID && i.Sequence == seq {
				out = append(out, i)
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	return out, nil
}

func (r *installmentRepo) CountPaidByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	var n int64
	for _, i := range r.s.installments {
		if i.LoanID == loanID && i.Status == loan.InstallmentPaid {
			n++
		}
	}
	return n, nil
}

func (r *installmentRepo) Save(ctx context.Context, i *loan.Installment) error {
	if _, ok := r.s.installments[i.ID]; !ok {
		return loan.ErrInstallmentNotFound
	}
	r.s.installments[i.ID] = *i
	return nil
}

func (r *installmentRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	for id, i := range r.s.installments {
		if i.Status == loan.InstallmentOpen && i.DueDate.Before(asOf) {
			i.Status = loan.InstallmentOverdue
			r.s.installments[id] = i
			n++
		}
	}
	return n, nil
}

func (r *installmentRepo) DeleteByLoanID(ctx context.Context, loanID uint64) error {
	for id, i := range r.s.installments {
		if i.LoanID == loanID {
			delete(r.s.installments, id)
			delete(r.s.installmentIDs, i.InstallmentID)
		}
	}
	return nil
}
