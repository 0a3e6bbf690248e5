// Package memuow is an in-memory uow.UnitOfWork for usecase and handler
// tests. A mutex serializes transactions and each one runs on a copy of
// the state that is committed only on success.
package memuow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lending-ledger/internal/domain/investment"
	"lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/uow"
	"lending-ledger/internal/domain/user"
)

var _ uow.UnitOfWork = (*Store)(nil)

type state struct {
	nextID uint64

	users   map[uint64]user.User
	userIDs map[string]uint64

	investments   map[uint64]investment.Investment
	investmentIDs map[string]uint64
	applications  []investment.Application
	members       map[string]struct{}

	loans          map[uint64]loan.Loan
	loanIDs        map[string]uint64
	installments   map[uint64]loan.Installment
	installmentIDs map[string]uint64
}

func newState() *state {
	return &state{
		users:          map[uint64]user.User{},
		userIDs:        map[string]uint64{},
		investments:    map[uint64]investment.Investment{},
		investmentIDs:  map[string]uint64{},
		members:        map[string]struct{}{},
		loans:          map[uint64]loan.Loan{},
		loanIDs:        map[string]uint64{},
		installments:   map[uint64]loan.Installment{},
		installmentIDs: map[string]uint64{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextID = s.nextID
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.userIDs {
		c.userIDs[k] = v
	}
	for k, v := range s.investments {
		c.investments[k] = v
	}
	for k, v := range s.investmentIDs {
		c.investmentIDs[k] = v
	}
	c.applications = append(c.applications, s.applications...)
	for k := range s.members {
		c.members[k] = struct{}{}
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	for k, v := range s.loanIDs {
		c.loanIDs[k] = v
	}
	for k, v := range s.installments {
		c.installments[k] = v
	}
	for k, v := range s.installmentIDs {
		c.installmentIDs[k] = v
	}
	return c
}

func memberKey(investmentID, userID uint64) string {
	return fmt.Sprintf("%d:%d", investmentID, userID)
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store { return &Store{st: newState()} }

func (m *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.st.clone()
	if err := fn(reposFor(tx)); err != nil {
		return err // tx copy discarded: full rollback
	}
	m.st = tx
	return nil
}

func (m *Store) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.st.clone()
	r := reposFor(tx)
	l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
	if err != nil {
		return err
	}
	if err := fn(r, l); err != nil {
		return err
	}
	m.st = tx
	return nil
}

func reposFor(s *state) uow.Repos {
	return uow.Repos{
		Users:        &userRepo{s: s},
		Investments:  &investmentRepo{s: s},
		Applications: &applicationRepo{s: s},
		Loans:        &loanRepo{s: s},
		Installments: &installmentRepo{s: s},
	}
}

// ---- seeding and assertion helpers (outside any transaction) ----

func (m *Store) SeedUser(u user.User) user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.nextID++
	u.ID = m.st.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.st.users[u.ID] = u
	m.st.userIDs[u.UserID] = u.ID
	return u
}

func (m *Store) SeedInvestment(inv investment.Investment) investment.Investment {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.nextID++
	inv.ID = m.st.nextID
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	m.st.investments[inv.ID] = inv
	m.st.investmentIDs[inv.InvestmentID] = inv.ID
	return inv
}

func (m *Store) SeedLoan(l loan.Loan) loan.Loan {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.nextID++
	l.ID = m.st.nextID
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	m.st.loans[l.ID] = l
	m.st.loanIDs[l.LoanID] = l.ID
	return l
}

func (m *Store) SeedInstallment(i loan.Installment) loan.Installment {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.nextID++
	i.ID = m.st.nextID
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	m.st.installments[i.ID] = i
	m.st.installmentIDs[i.InstallmentID] = i.ID
	return i
}

// PutInstallment overwrites an already-seeded installment in place.
func (m *Store) PutInstallment(i loan.Installment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.installments[i.ID] = i
}

func (m *Store) User(userID string) (user.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.st.userIDs[userID]
	if !ok {
		return user.User{}, false
	}
	u, ok := m.st.users[id]
	return u, ok
}

func (m *Store) Investment(investmentID string) (investment.Investment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.st.investmentIDs[investmentID]
	if !ok {
		return investment.Investment{}, false
	}
	inv, ok := m.st.investments[id]
	return inv, ok
}

func (m *Store) Loan(loanID string) (loan.Loan, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.st.loanIDs[loanID]
	if !ok {
		return loan.Loan{}, false
	}
	l, ok := m.st.loans[id]
	return l, ok
}

func (m *Store) Installment(installmentID string) (loan.Installment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.st.installmentIDs[installmentID]
	if !ok {
		return loan.Installment{}, false
	}
	i, ok := m.st.installments[id]
	return i, ok
}

func (m *Store) InstallmentsByLoan(loanNumericID uint64) []loan.Installment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []loan.Installment
	for _, i := range m.st.installments {
		if i.LoanID == loanNumericID {
			out = append(out, i)
		}
	}
	return out
}

func (m *Store) Applications() []investment.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]investment.Application(nil), m.st.applications...)
}

func (m *Store) MemberCount(investmentNumericID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.st.members {
		var inv, usr uint64
		fmt.Sscanf(k, "%d:%d", &inv, &usr)
		if inv == investmentNumericID {
			n++
		}
	}
	return n
}
