package http

import (
	"net/http"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	BorrowerID  string  `json:"borrower_id" validate:"required,hex32"`
	Principal   float64 `json:"principal" validate:"required,gt=0,dec2"`
	Rate        float64 `json:"rate" validate:"gte=0,fraction"`
	TermPeriods int     `json:"term_periods" validate:"required,gt=0"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		BorrowerID:  req.BorrowerID,
		Principal:   req.Principal,
		Rate:        req.Rate,
		TermPeriods: req.TermPeriods,
	})
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context())
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusOK, dtos)
}

type updateLoanReq struct {
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=approved denied cancelled"`
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	var req updateLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	var in loan.UpdateLoanInput
	if req.Status != nil {
		s := domain.Status(*req.Status)
		in.Status = &s
	}
	dto, err := h.uc.Update(c.Request().Context(), c.Param("loan_id"), in)
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("loan_id")); err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.NoContent(http.StatusNoContent)
}
