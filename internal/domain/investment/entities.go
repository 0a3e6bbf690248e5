package investment

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("investment not found")
	ErrNotActive         = errors.New("investment is not active")
	ErrCapacityExceeded  = errors.New("amount exceeds investment capacity")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotAdmin          = errors.New("administrator role required")
	ErrInvalidTransition = errors.New("invalid investment state transition")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusFinalized Status = "finalized"
	StatusCancelled Status = "cancelled"
)

// Investment is a capped pool. TotalInvested is read and incremented
// only under a row lock; admission checks it against Cap.
type Investment struct {
	ID              uint64  `gorm:"primaryKey;column:id" json:"-"`
	InvestmentID    string  `gorm:"column:investment_id;type:char(32);not null;uniqueIndex:ux_investments_investment_id" json:"investment_id"`
	AdministratorID uint64  `gorm:"column:administrator_id;not null;index:idx_investments_admin" json:"-"`
	Cap             float64 `gorm:"column:cap;type:decimal(18,2);not null" json:"cap"`
	TotalInvested   float64 `gorm:"column:total_invested;type:decimal(18,2);not null;default:0" json:"total_invested"`
	Rate            float64 `gorm:"column:rate;type:decimal(6,4);not null" json:"rate"`
	TermDays        int     `gorm:"column:term_days;not null" json:"term_days"`
	Status          Status  `gorm:"column:status;type:enum('active','finalized','cancelled');default:'active'" json:"status"`
	StartDate       time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate         time.Time `gorm:"column:end_date;not null" json:"end_date"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Investment) TableName() string { return "investments" }

// Remaining is the headroom left under the cap.
func (i *Investment) Remaining() float64 { return i.Cap - i.TotalInvested }

// Application is one investor's committed contribution to a pool.
// Immutable once created: never updated, never partially applied.
type Application struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID string    `gorm:"column:application_id;type:char(32);not null;uniqueIndex:ux_applications_application_id" json:"application_id"`
	InvestmentID  uint64    `gorm:"column:investment_id;not null;index:idx_applications_investment" json:"-"`
	InvestorID    uint64    `gorm:"column:investor_id;not null;index:idx_applications_investor" json:"-"`
	Amount        float64   `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Application) TableName() string { return "applications" }

// InvestmentInvestor is the pool membership set. The composite primary
// key gives set semantics: re-funding by the same investor inserts nothing.
type InvestmentInvestor struct {
	InvestmentID uint64    `gorm:"primaryKey;column:investment_id"`
	UserID       uint64    `gorm:"primaryKey;column:user_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (InvestmentInvestor) TableName() string { return "investment_investors" }
