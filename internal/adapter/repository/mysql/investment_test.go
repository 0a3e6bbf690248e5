package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "lending-ledger/internal/domain/investment"
	"lending-ledger/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type investmentSQLite struct {
	ID              uint64    `gorm:"primaryKey;column:id"`
	InvestmentID    string    `gorm:"size:32;column:investment_id"`
	AdministratorID uint64    `gorm:"column:administrator_id"`
	Cap             float64   `gorm:"column:cap"`
	TotalInvested   float64   `gorm:"column:total_invested"`
	Rate            float64   `gorm:"column:rate"`
	TermDays        int       `gorm:"column:term_days"`
	Status          string    `gorm:"type:text;column:status"` // ← no enum
	StartDate       time.Time `gorm:"column:start_date"`
	EndDate         time.Time `gorm:"column:end_date"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (investmentSQLite) TableName() string { return "investments" }

type applicationSQLite struct {
	ID            uint64    `gorm:"primaryKey;column:id"`
	ApplicationID string    `gorm:"size:32;column:application_id"`
	InvestmentID  uint64    `gorm:"column:investment_id"`
	InvestorID    uint64    `gorm:"column:investor_id"`
	Amount        float64   `gorm:"column:amount"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (applicationSQLite) TableName() string { return "applications" }

type investorSQLite struct {
	InvestmentID uint64    `gorm:"primaryKey;column:investment_id"`
	UserID       uint64    `gorm:"primaryKey;column:user_id"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (investorSQLite) TableName() string { return "investment_investors" }

func openInvestmentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&investmentSQLite{}, &applicationSQLite{}, &investorSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeInvestment(investmentID string) *domain.Investment {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Investment{
		InvestmentID:    investmentID,
		AdministratorID: 1,
		Cap:             50_000,
		Rate:            0.0150,
		TermDays:        180,
		Status:          domain.StatusActive,
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, 180),
	}
}

func TestInvestmentCreateAndGet(t *testing.T) {
	db := openInvestmentTestDB(t)
	repo := NewInvestmentRepository(db)
	ctx := context.Background()

	investmentID := id.NewID32()
	inv := makeInvestment(investmentID)
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inv.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByInvestmentID(ctx, investmentID)
	if err != nil {
		t.Fatalf("GetByInvestmentID: %v", err)
	}
	if got.Cap != 50_000 || got.Status != domain.StatusActive {
		t.Errorf("unexpected investment: %+v", got)
	}
}

func TestInvestmentGet_NotFound(t *testing.T) {
	db := openInvestmentTestDB(t)
	repo := NewInvestmentRepository(db)

	_, err := repo.GetByInvestmentID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvestmentSave_PersistsRunningTotal(t *testing.T) {
	db := openInvestmentTestDB(t)
	repo := NewInvestmentRepository(db)
	ctx := context.Background()

	investmentID := id.NewID32()
	inv := makeInvestment(investmentID)
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	inv.TotalInvested = 12_500
	if err := repo.Save(ctx, inv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByInvestmentID(ctx, investmentID)
	if err != nil {
		t.Fatalf("GetByInvestmentID: %v", err)
	}
	if got.TotalInvested != 12_500 {
		t.Errorf("total_invested = %.2f, want 12500", got.TotalInvested)
	}
}

func TestAddInvestor_Idempotent(t *testing.T) {
	db := openInvestmentTestDB(t)
	repo := NewInvestmentRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.AddInvestor(ctx, 1, 7); err != nil {
			t.Fatalf("AddInvestor %d: %v", i, err)
		}
	}
	if err := repo.AddInvestor(ctx, 1, 8); err != nil {
		t.Fatalf("AddInvestor: %v", err)
	}

	ids, err := repo.ListInvestorIDs(ctx, 1)
	if err != nil {
		t.Fatalf("ListInvestorIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 7 || ids[1] != 8 {
		t.Fatalf("investor ids = %v, want [7 8]", ids)
	}
}

func TestApplicationSumByInvestmentID(t *testing.T) {
	db := openInvestmentTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	for _, amount := range []float64{100.50, 200.25} {
		if err := repo.Create(ctx, &domain.Application{
			ApplicationID: id.NewID32(), InvestmentID: 1, InvestorID: 7, Amount: amount,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	// another pool, must not leak into the sum
	if err := repo.Create(ctx, &domain.Application{
		ApplicationID: id.NewID32(), InvestmentID: 2, InvestorID: 7, Amount: 999,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	total, err := repo.SumByInvestmentID(ctx, 1)
	if err != nil {
		t.Fatalf("SumByInvestmentID: %v", err)
	}
	if total != 300.75 {
		t.Fatalf("sum = %.2f, want 300.75", total)
	}

	// empty pool sums to zero, not an error
	if total, err := repo.SumByInvestmentID(ctx, 3); err != nil || total != 0 {
		t.Fatalf("empty pool: total=%.2f err=%v, want 0,nil", total, err)
	}
}

func TestApplicationListByInvestmentID_NewestFirst(t *testing.T) {
	db := openInvestmentTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	older := &domain.Application{
		ApplicationID: id.NewID32(), InvestmentID: 1, InvestorID: 7, Amount: 100,
		CreatedAt: now.Add(-time.Hour),
	}
	newer := &domain.Application{
		ApplicationID: id.NewID32(), InvestmentID: 1, InvestorID: 8, Amount: 200,
		CreatedAt: now,
	}
	for _, a := range []*domain.Application{older, newer} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListByInvestmentID(ctx, 1)
	if err != nil {
		t.Fatalf("ListByInvestmentID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ApplicationID != newer.ApplicationID {
		t.Fatalf("not newest-first: %+v", got)
	}
}
