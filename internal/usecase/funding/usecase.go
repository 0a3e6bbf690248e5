// Package funding admits contributions into capped investment pools.
// Mutations run in a single transaction, locking the Investment row
// before the Investor row.
package funding

import (
	"context"
	"fmt"
	"time"

	domain "lending-ledger/internal/domain/investment"
	"lending-ledger/internal/domain/uow"
	"lending-ledger/internal/domain/user"
	"lending-ledger/pkg/id"
	"lending-ledger/pkg/money"
)

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// Fund admits one contribution into a pool. Any failure rolls the
// whole transaction back.
func (u *Usecase) Fund(ctx context.Context, in FundInput) (*ApplicationDTO, error) {
	// Rejected before any lock is taken.
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if !money.IsMinorUnits(in.Amount) {
		return nil, fmt.Errorf("%w: amount must have at most 2 decimal places", domain.ErrInvalidAmount)
	}

	var dto *ApplicationDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// Lock order: investment before investor, globally.
		inv, err := r.Investments.GetByInvestmentIDForUpdate(ctx, in.InvestmentID)
		if err != nil {
			return err
		}
		if inv.Status != domain.StatusActive {
			return domain.ErrNotActive
		}

		// total_invested is only read and written under this row lock
		if money.Cmp(money.Add(inv.TotalInvested, in.Amount), inv.Cap) > 0 {
			return domain.ErrCapacityExceeded
		}

		investor, err := r.Users.GetByUserIDForUpdate(ctx, in.InvestorID)
		if err != nil {
			return err
		}
		if money.Cmp(investor.Balance, in.Amount) < 0 {
			return domain.ErrInsufficientFunds
		}

		investor.Balance = money.Sub(investor.Balance, in.Amount)
		if err := r.Users.Save(ctx, investor); err != nil {
			return err
		}

		app := &domain.Application{
			ApplicationID: id.NewID32(),
			InvestmentID:  inv.ID,
			InvestorID:    investor.ID,
			Amount:        in.Amount,
		}
		if err := r.Applications.Create(ctx, app); err != nil {
			return err
		}

		inv.TotalInvested = money.Add(inv.TotalInvested, in.Amount)
		if err := r.Investments.Save(ctx, inv); err != nil {
			return err
		}

		if err := r.Investments.AddInvestor(ctx, inv.ID, investor.ID); err != nil {
			return err
		}

		dto = &ApplicationDTO{
			ApplicationID: app.ApplicationID,
			InvestmentID:  inv.InvestmentID,
			InvestorID:    investor.UserID,
			Amount:        app.Amount,
			CreatedAt:     app.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// CreateInvestment opens a new pool. Administrators only.
func (u *Usecase) CreateInvestment(ctx context.Context, in CreateInvestmentInput) (*InvestmentDTO, error) {
	if in.Cap <= 0 || !money.IsMinorUnits(in.Cap) {
		return nil, fmt.Errorf("%w: cap must be a positive amount", domain.ErrInvalidInput)
	}
	if in.Rate < 0 {
		return nil, fmt.Errorf("%w: rate must not be negative", domain.ErrInvalidInput)
	}
	if in.TermDays <= 0 {
		return nil, fmt.Errorf("%w: term must be positive", domain.ErrInvalidInput)
	}

	var dto *InvestmentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		admin, err := r.Users.GetByUserID(ctx, in.AdministratorID)
		if err != nil {
			return err
		}
		if admin.Role != user.RoleAdmin {
			return domain.ErrNotAdmin
		}

		now := time.Now().UTC()
		inv := &domain.Investment{
			InvestmentID:    id.NewID32(),
			AdministratorID: admin.ID,
			Cap:             in.Cap,
			TotalInvested:   0,
			Rate:            in.Rate,
			TermDays:        in.TermDays,
			Status:          domain.StatusActive,
			StartDate:       now,
			EndDate:         now.AddDate(0, 0, in.TermDays),
		}
		if err := r.Investments.Create(ctx, inv); err != nil {
			return err
		}
		dto = toInvestmentDTO(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Finalize closes an active pool to further funding.
func (u *Usecase) Finalize(ctx context.Context, investmentID string) (*InvestmentDTO, error) {
	return u.transition(ctx, investmentID, domain.StatusFinalized)
}

// Cancel aborts an active pool.
func (u *Usecase) Cancel(ctx context.Context, investmentID string) (*InvestmentDTO, error) {
	return u.transition(ctx, investmentID, domain.StatusCancelled)
}

func (u *Usecase) transition(ctx context.Context, investmentID string, to domain.Status) (*InvestmentDTO, error) {
	var dto *InvestmentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inv, err := r.Investments.GetByInvestmentIDForUpdate(ctx, investmentID)
		if err != nil {
			return err
		}
		if inv.Status != domain.StatusActive {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, inv.Status, to)
		}
		inv.Status = to
		if err := r.Investments.Save(ctx, inv); err != nil {
			return err
		}
		dto = toInvestmentDTO(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) GetInvestment(ctx context.Context, investmentID string) (*InvestmentDTO, error) {
	var dto *InvestmentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inv, err := r.Investments.GetByInvestmentID(ctx, investmentID)
		if err != nil {
			return err
		}
		dto = toInvestmentDTO(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ListApplications returns the committed funding ledger of a pool, newest
// first.
func (u *Usecase) ListApplications(ctx context.Context, investmentID string) ([]ApplicationDTO, error) {
	var out []ApplicationDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inv, err := r.Investments.GetByInvestmentID(ctx, investmentID)
		if err != nil {
			return err
		}
		apps, err := r.Applications.ListByInvestmentID(ctx, inv.ID)
		if err != nil {
			return err
		}
		for i := range apps {
			investor, err := r.Users.GetByID(ctx, apps[i].InvestorID)
			if err != nil {
				return err
			}
			out = append(out, ApplicationDTO{
				ApplicationID: apps[i].ApplicationID,
				InvestmentID:  inv.InvestmentID,
				InvestorID:    investor.UserID,
				Amount:        apps[i].Amount,
				CreatedAt:     apps[i].CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
