package mysql

import (
	"context"
	"errors"

	invDomain "lending-ledger/internal/domain/investment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvestmentRepository struct{ db *gorm.DB }

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) Create(ctx context.Context, inv *invDomain.Investment) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvestmentRepository) GetByInvestmentID(ctx context.Context, investmentID string) (*invDomain.Investment, error) {
	var out invDomain.Investment
	res := r.db.WithContext(ctx).Where("investment_id = ?", investmentID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, invDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *InvestmentRepository) GetByInvestmentIDForUpdate(ctx context.Context, investmentID string) (*invDomain.Investment, error) {
	var out invDomain.Investment
	res := forUpdate(r.db.WithContext(ctx)).
		Where("investment_id = ?", investmentID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, invDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *InvestmentRepository) Save(ctx context.Context, inv *invDomain.Investment) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// AddInvestor inserts pool membership with ON CONFLICT DO NOTHING: the
// composite PK makes re-funding by the same investor a no-op.
func (r *InvestmentRepository) AddInvestor(ctx context.Context, investmentID, userID uint64) error {
	m := invDomain.InvestmentInvestor{InvestmentID: investmentID, UserID: userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&m).Error
}

func (r *InvestmentRepository) ListInvestorIDs(ctx context.Context, investmentID uint64) ([]uint64, error) {
	var out []uint64
	err := r.db.WithContext(ctx).
		Model(&invDomain.InvestmentInvestor{}).
		Where("investment_id = ?", investmentID).
		Order("user_id").
		Pluck("user_id", &out).Error
	return out, err
}

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *invDomain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) ListByInvestmentID(ctx context.Context, investmentID uint64) ([]invDomain.Application, error) {
	var out []invDomain.Application
	err := r.db.WithContext(ctx).
		Where("investment_id = ?", investmentID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *ApplicationRepository) SumByInvestmentID(ctx context.Context, investmentID uint64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&invDomain.Application{}).
		Where("investment_id = ?", investmentID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
