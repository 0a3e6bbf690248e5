package http

import (
	"net/http"

	"lending-ledger/internal/usecase/funding"

	"github.com/labstack/echo/v4"
)

type FundingHandler struct{ uc *funding.Usecase }

func NewFundingHandler(uc *funding.Usecase) *FundingHandler { return &FundingHandler{uc: uc} }

type createInvestmentReq struct {
	AdministratorID string  `json:"administrator_id" validate:"required,hex32"`
	Cap             float64 `json:"cap" validate:"required,gt=0,dec2"`
	Rate            float64 `json:"rate" validate:"gte=0,fraction"`
	TermDays        int     `json:"term_days" validate:"required,gt=0"`
}

func (h *FundingHandler) CreateInvestment(c echo.Context) error {
	var req createInvestmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.CreateInvestment(c.Request().Context(), funding.CreateInvestmentInput(req))
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *FundingHandler) GetInvestment(c echo.Context) error {
	dto, err := h.uc.GetInvestment(c.Request().Context(), c.Param("investment_id"))
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusOK, dto)
}

type fundReq struct {
	InvestorID string  `json:"investor_id" validate:"required,hex32"`
	Amount     float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *FundingHandler) Fund(c echo.Context) error {
	var req fundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Fund(c.Request().Context(), funding.FundInput{
		InvestorID:   req.InvestorID,
		InvestmentID: c.Param("investment_id"),
		Amount:       req.Amount,
	})
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *FundingHandler) ListApplications(c echo.Context) error {
	dtos, err := h.uc.ListApplications(c.Request().Context(), c.Param("investment_id"))
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusOK, dtos)
}

type investmentStatusReq struct {
	Status string `json:"status" validate:"required,oneof=finalized cancelled"`
}

func (h *FundingHandler) UpdateInvestmentStatus(c echo.Context) error {
	var req investmentStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	var (
		dto *funding.InvestmentDTO
		err error
	)
	if req.Status == "finalized" {
		dto, err = h.uc.Finalize(c.Request().Context(), c.Param("investment_id"))
	} else {
		dto, err = h.uc.Cancel(c.Request().Context(), c.Param("investment_id"))
	}
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusOK, dto)
}
