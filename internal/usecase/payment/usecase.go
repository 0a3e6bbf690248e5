// Package payment settles installments against their loan. An installment
// moves open|overdue -> paid exactly once; the loan balance is reconciled
// in the same transaction, so a crash can never leave an installment paid
// with a stale balance.
package payment

import (
	"context"
	"fmt"
	"time"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/uow"
	"lending-ledger/pkg/money"
)

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// MarkPaid settles one installment and decrements the loan balance in
// the same transaction. A paid installment is rejected with ErrAlreadyPaid.
func (u *Usecase) MarkPaid(ctx context.Context, installmentID string) (*SettlementDTO, error) {
	var dto *SettlementDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inst, err := r.Installments.GetByInstallmentIDForUpdate(ctx, installmentID)
		if err != nil {
			return err
		}
		if inst.Status == domain.InstallmentPaid {
			return domain.ErrAlreadyPaid
		}

		l, err := r.Loans.GetByIDForUpdate(ctx, inst.LoanID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		inst.Status = domain.InstallmentPaid
		inst.PaidDate = &now
		if err := r.Installments.Save(ctx, inst); err != nil {
			return err
		}

		settled := money.Add(inst.Amount, inst.Penalty)
		l.OutstandingBalance = money.ClampSub(l.OutstandingBalance, settled)
		if l.OutstandingBalance == 0 {
			l.Status = domain.StatusPaidOff
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = &SettlementDTO{
			Installment: toInstallmentDTO(inst),
			LoanID:      l.LoanID,
			Outstanding: l.OutstandingBalance,
			LoanStatus:  string(l.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// AssessPenalty sets the late fee on an unpaid installment. The penalty is
// collected together with the amount when the installment settles.
func (u *Usecase) AssessPenalty(ctx context.Context, installmentID string, amount float64) (*InstallmentDTO, error) {
	if amount < 0 || !money.IsMinorUnits(amount) {
		return nil, fmt.Errorf("%w: must be a non-negative amount", domain.ErrInvalidPenalty)
	}

	var dto *InstallmentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inst, err := r.Installments.GetByInstallmentIDForUpdate(ctx, installmentID)
		if err != nil {
			return err
		}
		if inst.Status == domain.InstallmentPaid {
			return domain.ErrAlreadyPaid
		}
		inst.Penalty = amount
		if err := r.Installments.Save(ctx, inst); err != nil {
			return err
		}
		d := toInstallmentDTO(inst)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// FlagOverdue transitions every open installment past its due date to
// overdue. The open -> overdue move is driven by this sweep, never by
// settlement itself.
func (u *Usecase) FlagOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		n, err = r.Installments.MarkOverdue(ctx, asOf)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
