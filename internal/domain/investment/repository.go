package investment

import "context"

type Repository interface {
	Create(ctx context.Context, inv *Investment) error
	GetByInvestmentID(ctx context.Context, investmentID string) (*Investment, error)
	// GetByInvestmentIDForUpdate takes an exclusive row lock; every funding
	// call serializes on it.
	GetByInvestmentIDForUpdate(ctx context.Context, investmentID string) (*Investment, error)
	Save(ctx context.Context, inv *Investment) error
	// AddInvestor records pool membership; inserting an existing pair is a
	// no-op (set semantics).
	AddInvestor(ctx context.Context, investmentID, userID uint64) error
	ListInvestorIDs(ctx context.Context, investmentID uint64) ([]uint64, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *Application) error
	ListByInvestmentID(ctx context.Context, investmentID uint64) ([]Application, error)
	// SumByInvestmentID aggregates committed applications. Reporting and
	// invariant checks only — admission uses Investment.TotalInvested.
	SumByInvestmentID(ctx context.Context, investmentID uint64) (float64, error)
}
