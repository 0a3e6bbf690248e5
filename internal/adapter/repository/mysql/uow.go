package mysql

import (
	"context"
	"errors"
	"fmt"

	"lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/uow"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func bindRepos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:        &UserRepository{db: tx},
		Investments:  &InvestmentRepository{db: tx},
		Applications: &ApplicationRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Installments: &InstallmentRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bindRepos(tx))
	})
	return translateConflict(err)
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := bindRepos(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
	return translateConflict(err)
}

// MySQL aborts one transaction on lock-wait timeout (1205) or deadlock
// (1213). Either way the transaction rolled back completely, so the
// operation is safe to retry; surface both as uow.ErrConflict.
func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == 1205 || myErr.Number == 1213) {
		return fmt.Errorf("%w: %v", uow.ErrConflict, err)
	}
	return err
}
