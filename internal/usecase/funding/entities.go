package funding

import (
	"time"

	domain "lending-ledger/internal/domain/investment"
)

type CreateInvestmentInput struct {
	AdministratorID string  `json:"administrator_id"`
	Cap             float64 `json:"cap"`
	Rate            float64 `json:"rate"`
	TermDays        int     `json:"term_days"`
}

type FundInput struct {
	InvestorID   string  `json:"investor_id"`
	InvestmentID string  `json:"investment_id"`
	Amount       float64 `json:"amount"`
}

type InvestmentDTO struct {
	InvestmentID  string    `json:"investment_id"`
	Cap           float64   `json:"cap"`
	TotalInvested float64   `json:"total_invested"`
	Rate          float64   `json:"rate"`
	TermDays      int       `json:"term_days"`
	Status        string    `json:"status"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}

type ApplicationDTO struct {
	ApplicationID string    `json:"application_id"`
	InvestmentID  string    `json:"investment_id"`
	InvestorID    string    `json:"investor_id"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

func toInvestmentDTO(inv *domain.Investment) *InvestmentDTO {
	return &InvestmentDTO{
		InvestmentID:  inv.InvestmentID,
		Cap:           inv.Cap,
		TotalInvested: inv.TotalInvested,
		Rate:          inv.Rate,
		TermDays:      inv.TermDays,
		Status:        string(inv.Status),
		StartDate:     inv.StartDate,
		EndDate:       inv.EndDate,
	}
}
