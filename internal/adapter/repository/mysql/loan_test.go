package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM) ---

type loanSQLite struct {
	ID                 uint64         `gorm:"primaryKey;column:id"`
	LoanID             string         `gorm:"size:32;column:loan_id"`
	BorrowerID         uint64         `gorm:"column:borrower_id"`
	Principal          float64        `gorm:"column:principal"`
	Rate               float64        `gorm:"column:rate"`
	TermPeriods        int            `gorm:"column:term_periods"`
	OutstandingBalance float64        `gorm:"column:outstanding_balance"`
	Status             string         `gorm:"type:text;column:status"` // ← no enum
	OriginationDate    time.Time      `gorm:"column:origination_date"`
	DueDate            time.Time      `gorm:"column:due_date"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type installmentSQLite struct {
	ID            uint64         `gorm:"primaryKey;column:id"`
	InstallmentID string         `gorm:"size:32;column:installment_id"`
	LoanID        uint64         `gorm:"column:loan_id"`
	Sequence      int            `gorm:"column:sequence"`
	Amount        float64        `gorm:"column:amount"`
	Penalty       float64        `gorm:"column:penalty"`
	Status        string         `gorm:"type:text;column:status"`
	DueDate       time.Time      `gorm:"column:due_date"`
	PaidDate      *time.Time     `gorm:"column:paid_date"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (installmentSQLite) TableName() string { return "installments" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schemas.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// IMPORTANT: migrate the sqlite-safe models, NOT the domain models.
	if err := db.AutoMigrate(&loanSQLite{}, &installmentSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan(loanID string, borrowerID uint64) *domain.Loan {
	origin := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	return &domain.Loan{
		LoanID:             loanID,
		BorrowerID:         borrowerID,
		Principal:          10_000.00,
		Rate:               0.0200,
		TermPeriods:        12,
		OutstandingBalance: 11_347.20,
		Status:             domain.StatusInReview,
		OriginationDate:    origin,
		DueDate:            origin.AddDate(0, 12, 0),
	}
}

func TestLoanCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, 7)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.LoanID != loanID || got.BorrowerID != 7 {
		t.Errorf("unexpected loan: %+v", got)
	}
}

func TestLoanSaveUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, 7)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	l.Status = domain.StatusApproved
	l.OutstandingBalance = 10_401.60
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.Status != domain.StatusApproved || got.OutstandingBalance != 10_401.60 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestLoanGetByLoanID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	_, err := repo.GetByLoanID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPendingLoanByBorrowerID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	const borrower = uint64(9)
	now := time.Now().UTC()

	// Seed loans:
	// - approved (should NOT match)
	if err := db.Create(&loanSQLite{
		LoanID:     "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		BorrowerID: borrower, Principal: 1000, Rate: 0.02, TermPeriods: 6,
		Status: "approved", CreatedAt: now.Add(-3 * time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}

	// - in_review (older)
	if err := db.Create(&loanSQLite{
		LoanID:     "cccccccccccccccccccccccccccccccc",
		BorrowerID: borrower, Principal: 1500, Rate: 0.02, TermPeriods: 6,
		Status: "in_review", CreatedAt: now.Add(-2 * time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}

	// - in_review (newer) => should be returned
	wantID := "dddddddddddddddddddddddddddddddd"
	if err := db.Create(&loanSQLite{
		LoanID:     wantID,
		BorrowerID: borrower, Principal: 2000, Rate: 0.02, TermPeriods: 6,
		Status: "in_review", CreatedAt: now.Add(-1 * time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetPendingLoanByBorrowerID(ctx, borrower)
	if err != nil {
		t.Fatalf("GetPendingLoanByBorrowerID: %v", err)
	}
	if got == nil || got.LoanID != wantID || got.Status != domain.StatusInReview {
		t.Fatalf("unexpected loan: %+v", got)
	}

	// borrower with no loan in review
	if _, err := repo.GetPendingLoanByBorrowerID(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for borrower without pending loans, got %v", err)
	}
}

func TestLoanDelete_SoftDeletes(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, 7)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, l); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByLoanID(ctx, loanID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// the row survives with deleted_at set
	var raw loanSQLite
	if err := db.Unscoped().Where("loan_id = ?", loanID).First(&raw).Error; err != nil {
		t.Fatalf("row gone entirely: %v", err)
	}
	if !raw.DeletedAt.Valid {
		t.Fatalf("deleted_at not set")
	}
}

// ----------------------------- Installments -----------------------------

func seedSchedule(t *testing.T, db *gorm.DB, loanNumericID uint64, n int) []*domain.Installment {
	t.Helper()
	repo := NewInstallmentRepository(db)
	origin := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	items := make([]*domain.Installment, 0, n)
	for k := 1; k <= n; k++ {
		items = append(items, &domain.Installment{
			InstallmentID: id.NewID32(),
			LoanID:        loanNumericID,
			Sequence:      k,
			Amount:        945.60,
			Status:        domain.InstallmentOpen,
			DueDate:       origin.AddDate(0, k, 0),
		})
	}
	if err := repo.CreateBatch(context.Background(), items); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	return items
}

func TestInstallmentCreateBatchAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewInstallmentRepository(db)
	ctx := context.Background()

	items := seedSchedule(t, db, 1, 3)
	for _, it := range items {
		if it.ID == 0 {
			t.Fatalf("CreateBatch did not set auto-increment ID")
		}
	}

	got, err := repo.ListByLoanID(ctx, 1)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, it := range got {
		if it.Sequence != i+1 {
			t.Fatalf("not ordered by sequence: %d at %d", it.Sequence, i)
		}
	}
}

func TestInstallmentGetByInstallmentID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewInstallmentRepository(db)

	_, err := repo.GetByInstallmentID(context.Background(), "ffffffffffffffffffffffffffffffff")
	if !errors.Is(err, domain.ErrInstallmentNotFound) {
		t.Fatalf("expected ErrInstallmentNotFound, got %v", err)
	}
}

func TestInstallmentCountPaidByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewInstallmentRepository(db)
	ctx := context.Background()

	items := seedSchedule(t, db, 1, 3)

	now := time.Now().UTC()
	items[0].Status = domain.InstallmentPaid
	items[0].PaidDate = &now
	if err := repo.Save(ctx, items[0]); err != nil {
		t.Fatalf("Save: %v", err)
	}

	n, err := repo.CountPaidByLoanID(ctx, 1)
	if err != nil {
		t.Fatalf("CountPaidByLoanID: %v", err)
	}
	if n != 1 {
		t.Fatalf("paid count = %d, want 1", n)
	}
}

func TestInstallmentMarkOverdue(t *testing.T) {
	db := openTestDB(t)
	repo := NewInstallmentRepository(db)
	ctx := context.Background()

	items := seedSchedule(t, db, 1, 3)

	// asOf past the first two due dates
	asOf := items[1].DueDate.AddDate(0, 0, 1)
	n, err := repo.MarkOverdue(ctx, asOf)
	if err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}
	if n != 2 {
		t.Fatalf("flagged = %d, want 2", n)
	}

	got, err := repo.GetByInstallmentID(ctx, items[2].InstallmentID)
	if err != nil {
		t.Fatalf("GetByInstallmentID: %v", err)
	}
	if got.Status != domain.InstallmentOpen {
		t.Fatalf("future installment flagged: %s", got.Status)
	}

	// second sweep is a no-op
	if n, err := repo.MarkOverdue(ctx, asOf); err != nil || n != 0 {
		t.Fatalf("second sweep: n=%d err=%v, want 0,nil", n, err)
	}
}

func TestInstallmentDeleteByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewInstallmentRepository(db)
	ctx := context.Background()

	seedSchedule(t, db, 1, 3)
	seedSchedule(t, db, 2, 2)

	if err := repo.DeleteByLoanID(ctx, 1); err != nil {
		t.Fatalf("DeleteByLoanID: %v", err)
	}

	gone, err := repo.ListByLoanID(ctx, 1)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(gone) != 0 {
		t.Fatalf("loan 1 installments left: %d", len(gone))
	}
	kept, err := repo.ListByLoanID(ctx, 2)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(kept) != 2 {
		t.Fatalf("loan 2 installments = %d, want 2", len(kept))
	}
}
